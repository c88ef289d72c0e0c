package menu

import (
	"shellhost/internal/channels"
	"shellhost/internal/i18n"
)

// windowsTemplates uses separate File/Edit/View/Window/Help groups and Ctrl
// accelerators.
type windowsTemplates struct {
	base *basePlatform
}

func (w *windowsTemplates) appTemplate(showDev bool) []Item {
	t := w.base.t(i18n.NamespaceMenu)

	template := []Item{
		t("file.title").withSubmenu(
			t("file.preferences").withAction(channels.OpenSettingsWindow, nil),
			separator,
			t("file.quit").withRole(RoleQuit),
		),
		t("edit.title").withSubmenu(
			t("edit.undo").withRole(RoleUndo).withAccelerator("Ctrl+Z"),
			t("edit.redo").withRole(RoleRedo).withAccelerator("Ctrl+Y"),
			separator,
			t("edit.cut").withRole(RoleCut).withAccelerator("Ctrl+X"),
			t("edit.copy").withRole(RoleCopy).withAccelerator("Ctrl+C"),
			t("edit.paste").withRole(RolePaste).withAccelerator("Ctrl+V"),
			separator,
			t("edit.selectAll").withRole(RoleSelectAll).withAccelerator("Ctrl+A"),
		),
		viewGroup(t),
		windowGroup(t),
		t("help.title").withSubmenu(helpLinks(t, w.base.env)...),
	}

	if showDev {
		template = append(template, ctrlDevGroup(t))
	}
	return template
}

func (w *windowsTemplates) contextTemplate(kind ContextKind, payload Payload) []Item {
	return ctrlContextTemplate(w.base, kind, payload)
}

func (w *windowsTemplates) trayTemplate() []Item {
	return ctrlTrayTemplate(w.base)
}

// The helpers below are shared by the two Ctrl-accelerator variants.

func viewGroup(t func(string) Item) Item {
	return t("view.title").withSubmenu(
		t("view.resetZoom").withRole(RoleResetZoom).withAccelerator("Ctrl+0"),
		t("view.zoomIn").withRole(RoleZoomIn).withAccelerator("Ctrl+Plus"),
		t("view.zoomOut").withRole(RoleZoomOut).withAccelerator("Ctrl+-"),
		separator,
		t("view.toggleFullscreen").withRole(RoleToggleFullscreen).withAccelerator("F11"),
	)
}

func windowGroup(t func(string) Item) Item {
	return t("window.title").withSubmenu(
		t("window.minimize").withRole(RoleMinimize),
		t("window.close").withRole(RoleClose),
	)
}

func helpLinks(t func(string) Item, env Env) []Item {
	return []Item{
		t("help.visitWebsite").withAction(channels.OpenExternalLink, map[string]interface{}{"url": env.WebsiteURL}),
		t("help.githubRepo").withAction(channels.OpenExternalLink, map[string]interface{}{"url": env.RepoURL}),
	}
}

func ctrlDevGroup(t func(string) Item) Item {
	return t("dev.title").withSubmenu(
		t("dev.reload").withRole(RoleReload).withAccelerator("Ctrl+R"),
		t("dev.forceReload").withRole(RoleForceReload).withAccelerator("Ctrl+Shift+R"),
		t("dev.devTools").withRole(RoleToggleDevTools).withAccelerator("Ctrl+Shift+I"),
		separator,
		t("dev.devPanel").withAction(channels.OpenDevtools, nil),
	)
}

func ctrlContextTemplate(b *basePlatform, kind ContextKind, payload Payload) []Item {
	t := b.t(i18n.NamespaceMenu)

	switch kind {
	case ContextChat:
		items := []Item{
			t("edit.copy").withRole(RoleCopy),
			t("edit.paste").withRole(RolePaste),
			separator,
			t("edit.selectAll").withRole(RoleSelectAll),
		}
		return append(items, b.deleteItems(payload)...)
	case ContextEditor:
		return []Item{
			t("edit.cut").withRole(RoleCut),
			t("edit.copy").withRole(RoleCopy),
			t("edit.paste").withRole(RolePaste),
			separator,
			t("edit.undo").withRole(RoleUndo),
			t("edit.redo").withRole(RoleRedo),
			separator,
			t("edit.selectAll").withRole(RoleSelectAll),
		}
	default:
		return []Item{
			t("edit.cut").withRole(RoleCut),
			t("edit.copy").withRole(RoleCopy),
			t("edit.paste").withRole(RolePaste),
			separator,
			t("edit.selectAll").withRole(RoleSelectAll),
		}
	}
}

func ctrlTrayTemplate(b *basePlatform) []Item {
	t := b.t(i18n.NamespaceMenu)

	return []Item{
		t("tray.open").withAction(channels.ShowMainWindow, nil),
		separator,
		t("file.preferences").withAction(channels.OpenSettingsWindow, nil),
		separator,
		t("tray.quit").withRole(RoleQuit),
	}
}
