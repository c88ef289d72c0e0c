package menu

import (
	"shellhost/internal/channels"
	"shellhost/internal/i18n"
)

// linuxTemplates follows the Windows layout; redo is Ctrl+Shift+Z and Help
// carries an About dialog since there is no native about role.
type linuxTemplates struct {
	base *basePlatform
}

func (l *linuxTemplates) appTemplate(showDev bool) []Item {
	t := l.base.t(i18n.NamespaceMenu)

	help := append(helpLinks(t, l.base.env),
		separator,
		t("help.about").withAction(channels.ShowAboutDialog, nil),
	)

	template := []Item{
		t("file.title").withSubmenu(
			t("file.preferences").withAction(channels.OpenSettingsWindow, nil),
			separator,
			t("file.quit").withRole(RoleQuit),
		),
		t("edit.title").withSubmenu(
			t("edit.undo").withRole(RoleUndo).withAccelerator("Ctrl+Z"),
			t("edit.redo").withRole(RoleRedo).withAccelerator("Ctrl+Shift+Z"),
			separator,
			t("edit.cut").withRole(RoleCut).withAccelerator("Ctrl+X"),
			t("edit.copy").withRole(RoleCopy).withAccelerator("Ctrl+C"),
			t("edit.paste").withRole(RolePaste).withAccelerator("Ctrl+V"),
			separator,
			t("edit.selectAll").withRole(RoleSelectAll).withAccelerator("Ctrl+A"),
		),
		viewGroup(t),
		windowGroup(t),
		t("help.title").withSubmenu(help...),
	}

	if showDev {
		template = append(template, ctrlDevGroup(t))
	}
	return template
}

func (l *linuxTemplates) contextTemplate(kind ContextKind, payload Payload) []Item {
	return ctrlContextTemplate(l.base, kind, payload)
}

func (l *linuxTemplates) trayTemplate() []Item {
	return ctrlTrayTemplate(l.base)
}
