package shell

func (a *App) renderContainerLogsView(w, h int) (string, []RowHandle) {
	buf := a.docker.ActiveLogBuffer()
	if buf == nil {
		return centerText("log view not active", w), nil
	}
	t := a.theme
	a.dockerLogVP.Width = w
	a.dockerLogVP.Height = h - 2

	header := accentStyle(t).Bold(true).Render(buf.ContainerName + " [" + buf.ContainerID + "]")
	if buf.SearchMode {
		header += "  " + mutedStyle(t).Render("search: ") + fgStyle(t).Render(buf.SearchQuery+"▏")
	} else if buf.SearchQuery != "" {
		header += "  " + mutedStyle(t).Render("filter: "+buf.SearchQuery+" (F to clear)")
	}

	bindings := []helpBinding{{"↑/↓", "scroll"}, {"End", "follow"}, {"f", "search"}, {"Esc", "back"}}
	content := header + "\n" + a.dockerLogVP.View() + "\n" + renderHelpBar(bindings, w, t)
	return content, nil
}
