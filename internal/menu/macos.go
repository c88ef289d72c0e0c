package menu

import (
	"shellhost/internal/channels"
	"shellhost/internal/i18n"
)

// macOSTemplates groups everything under the application-name menu and uses
// Command accelerators.
type macOSTemplates struct {
	base *basePlatform
}

func (m *macOSTemplates) appTemplate(showDev bool) []Item {
	t := m.base.t(i18n.NamespaceMenu)
	appName := m.base.env.AppName

	template := []Item{
		{Label: appName, Submenu: []Item{
			t("macOS.about").withRole(RoleAbout),
			separator,
			t("macOS.preferences").withAccelerator("Command+,").withAction(channels.OpenSettingsWindow, nil),
			separator,
			t("macOS.services").withRole(RoleServices).withSubmenu(),
			separator,
			t("macOS.hide").withRole(RoleHide).withAccelerator("Command+H"),
			t("macOS.hideOthers").withRole(RoleHideOthers).withAccelerator("Command+Alt+H"),
			t("macOS.unhide").withRole(RoleUnhide),
			separator,
			t("file.quit").withRole(RoleQuit).withAccelerator("Command+Q"),
		}},
		t("edit.title").withSubmenu(
			t("edit.undo").withRole(RoleUndo).withAccelerator("Command+Z"),
			t("edit.redo").withRole(RoleRedo).withAccelerator("Shift+Command+Z"),
			separator,
			t("edit.cut").withRole(RoleCut).withAccelerator("Command+X"),
			t("edit.copy").withRole(RoleCopy).withAccelerator("Command+C"),
			t("edit.paste").withRole(RolePaste).withAccelerator("Command+V"),
			t("edit.selectAll").withRole(RoleSelectAll).withAccelerator("Command+A"),
		),
	}

	if showDev {
		template = append(template, t("dev.title").withSubmenu(
			t("dev.reload").withRole(RoleReload).withAccelerator("Command+R"),
			t("dev.forceReload").withRole(RoleForceReload).withAccelerator("Shift+Command+R"),
			t("dev.devTools").withRole(RoleToggleDevTools).withAccelerator("F12"),
			separator,
			t("macOS.devTools").withAction(channels.OpenDevtools, nil),
		))
	}
	return template
}

func (m *macOSTemplates) contextTemplate(kind ContextKind, payload Payload) []Item {
	t := m.base.t(i18n.NamespaceMenu)

	switch kind {
	case ContextChat:
		items := []Item{t("edit.copy").withRole(RoleCopy)}
		return append(items, m.base.deleteItems(payload)...)
	case ContextEditor:
		return []Item{
			t("edit.cut").withRole(RoleCut),
			t("edit.copy").withRole(RoleCopy),
			t("edit.paste").withRole(RolePaste),
		}
	default:
		return []Item{
			t("edit.cut").withRole(RoleCut),
			t("edit.copy").withRole(RoleCopy),
			t("edit.paste").withRole(RolePaste),
		}
	}
}

func (m *macOSTemplates) trayTemplate() []Item {
	t := m.base.t(i18n.NamespaceMenu)

	return []Item{
		t("tray.show").withAction(channels.ShowMainWindow, nil),
		t("file.preferences").withAction(channels.OpenSettingsWindow, nil),
		separator,
		t("tray.quit").withRole(RoleQuit),
	}
}
