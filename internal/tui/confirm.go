package tui

type confirmModel struct {
	message string
}

func (m confirmModel) View() string {
	content := "Remove \"" + fitText(m.message, 60) + "\"?\n\n"
	content += "y yes    n no"
	return overlayBoxStyle.Render(content)
}
