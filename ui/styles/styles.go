package styles

import "github.com/charmbracelet/lipgloss"

func TitleStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("141")).
		Bold(true).
		Padding(0, 2).
		MarginBottom(1)
}

func LabelStyle(focused bool) lipgloss.Style {
	style := lipgloss.NewStyle().
		Foreground(lipgloss.Color("245")).
		PaddingLeft(2)
	if focused {
		style = style.Foreground(lipgloss.Color("39")).Bold(true)
	}
	return style
}

func InputStyle(width int, focused bool) lipgloss.Style {
	border := lipgloss.Color("238")
	if focused {
		border = lipgloss.Color("62")
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(0, 1).
		MarginLeft(2).
		Width(max(20, width-8))
}

func FieldErrorStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("203")).
		PaddingLeft(4)
}

func ButtonStyle(focused bool) lipgloss.Style {
	style := lipgloss.NewStyle().
		Foreground(lipgloss.Color("255")).
		Background(lipgloss.Color("238")).
		Padding(0, 3).
		MarginLeft(2).
		MarginTop(1)
	if focused {
		style = style.Background(lipgloss.Color("62")).Bold(true)
	}
	return style
}

func ErrorStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("196")).
		Bold(true).
		Padding(0, 2)
}

func ResultStyle(positive bool) lipgloss.Style {
	color := lipgloss.Color("214")
	if positive {
		color = lipgloss.Color("42")
	}
	return lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), false, false, false, true).
		BorderForeground(color).
		Padding(0, 1).
		MarginLeft(2)
}

func StatusStyle(width int) lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("241")).
		Background(lipgloss.Color("235")).
		Padding(0, 1).
		Width(width)
}

func HelpStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("241")).
		Padding(0, 2)
}
