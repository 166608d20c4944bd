package styles

import "github.com/charmbracelet/lipgloss"

var (
	// Colors - all colors meet WCAG AA contrast (4.5:1) on both black and dark surfaces
	PrimaryColor   = lipgloss.Color("#A78BFA") // Purple (violet-400)
	SecondaryColor = lipgloss.Color("#10B981") // Green
	WarningColor   = lipgloss.Color("#F59E0B") // Amber
	ErrorColor     = lipgloss.Color("#F87171") // Red (red-400)
	MutedColor     = lipgloss.Color("#9CA3AF") // Gray
	TextColor      = lipgloss.Color("#F9FAFB") // Light text
	BorderColor    = lipgloss.Color("#6B7280") // Gray (gray-500)
	BlueColor      = lipgloss.Color("#60A5FA") // Blue

	// Convenience styles for colors
	Primary   = lipgloss.NewStyle().Foreground(PrimaryColor)
	Secondary = lipgloss.NewStyle().Foreground(SecondaryColor)
	Warning   = lipgloss.NewStyle().Foreground(WarningColor)
	Error     = lipgloss.NewStyle().Foreground(ErrorColor)
	Muted     = lipgloss.NewStyle().Foreground(MutedColor)
	Text      = lipgloss.NewStyle().Foreground(TextColor)

	// Base styles
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(PrimaryColor).
		MarginBottom(1)

	Subtitle = lipgloss.NewStyle().
			Foreground(MutedColor).
			Italic(true)

	// Result box around the final total
	ResultBox = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(BorderColor).
			Padding(0, 2)

	ResultValue = lipgloss.NewStyle().
			Bold(true).
			Foreground(SecondaryColor)

	// Table header for `trapint plan` and `trapint functions`
	TableHeader = lipgloss.NewStyle().
			Bold(true).
			Foreground(PrimaryColor).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(BorderColor)

	TableCell = lipgloss.NewStyle().
			PaddingRight(2)

	// Prompt
	PromptLabel = lipgloss.NewStyle().
			Bold(true).
			Foreground(TextColor)

	HelpKey = lipgloss.NewStyle().
		Bold(true).
		Foreground(SecondaryColor)

	HelpBar = lipgloss.NewStyle().
		Foreground(MutedColor).
		MarginTop(1)

	// Messages
	ErrorMsg = lipgloss.NewStyle().
			Foreground(ErrorColor).
			Bold(true)

	SuccessMsg = lipgloss.NewStyle().
			Foreground(SecondaryColor).
			Bold(true)

	WarningMsg = lipgloss.NewStyle().
			Foreground(WarningColor).
			Bold(true)
)

// StatusColor returns the color for a partition status or run state name.
func StatusColor(status string) lipgloss.Color {
	switch status {
	case "merged", "completed":
		return SecondaryColor
	case "failed":
		return ErrorColor
	case "skipped":
		return WarningColor
	case "dispatching", "awaiting":
		return BlueColor
	case "planned", "pending":
		return MutedColor
	default:
		return MutedColor
	}
}

// StatusIcon returns the icon for a partition status or run state name.
func StatusIcon(status string) string {
	switch status {
	case "merged", "completed":
		return "✓"
	case "failed":
		return "✗"
	case "skipped":
		return "⏸"
	case "dispatching", "awaiting":
		return "●"
	case "planned", "pending":
		return "○"
	default:
		return "●"
	}
}

// Status renders text in the color of the given status.
func Status(status, text string) string {
	return lipgloss.NewStyle().Foreground(StatusColor(status)).Render(text)
}
