package theme

import "github.com/charmbracelet/lipgloss"

// Theme centralizes Lip Gloss styles for the Bubble Tea UI.
type Theme struct {
	Header   HeaderTheme
	List     ListTheme
	Footer   FooterTheme
	Modal    ModalTheme
	Reminder ReminderTheme
}

// HeaderTheme styles the top line with the user and request status.
type HeaderTheme struct {
	Title lipgloss.Style
	User  lipgloss.Style
	Busy  lipgloss.Style
	Error lipgloss.Style
}

// ListTheme styles the entry list.
type ListTheme struct {
	Item     lipgloss.Style
	Selected lipgloss.Style
	When     lipgloss.Style
	Empty    lipgloss.Style
}

// FooterTheme groups styles used by the bottom input and help lines.
type FooterTheme struct {
	Help    lipgloss.Style
	Status  lipgloss.Style
	Prompt  lipgloss.Style
	Message lipgloss.Style
}

// ModalTheme styles the centered login and register prompt.
type ModalTheme struct {
	Frame lipgloss.Style
	Title lipgloss.Style
}

// ReminderTheme styles floating reminders by phase.
type ReminderTheme struct {
	Pending lipgloss.Style
	Visible lipgloss.Style
}

// Default returns the built-in theme used across the UI.
func Default() Theme {
	accent := lipgloss.Color("212")
	muted := lipgloss.Color("244")

	return Theme{
		Header: HeaderTheme{
			Title: lipgloss.NewStyle().Foreground(accent).Bold(true),
			User:  lipgloss.NewStyle().Foreground(muted),
			Busy:  lipgloss.NewStyle().Foreground(lipgloss.Color("220")),
			Error: lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true),
		},
		List: ListTheme{
			Item:     lipgloss.NewStyle(),
			Selected: lipgloss.NewStyle().Foreground(accent).Bold(true),
			When:     lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
			Empty:    lipgloss.NewStyle().Foreground(muted).Italic(true),
		},
		Footer: FooterTheme{
			Help:    lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
			Status:  lipgloss.NewStyle().Foreground(muted),
			Prompt:  lipgloss.NewStyle().Foreground(accent),
			Message: lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
		},
		Modal: ModalTheme{
			Frame: lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(accent).
				Padding(1, 2),
			Title: lipgloss.NewStyle().Bold(true),
		},
		Reminder: ReminderTheme{
			Pending: lipgloss.NewStyle().Foreground(lipgloss.Color("239")).Faint(true),
			Visible: lipgloss.NewStyle().Foreground(lipgloss.Color("219")).Bold(true),
		},
	}
}
