package color

import (
	"os"

	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

var colorEnabled = true

func init() {
	if os.Getenv("NO_COLOR") != "" || !isTerminal() {
		colorEnabled = false
	}
}

func isTerminal() bool {
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func EnableColor(enable bool) {
	colorEnabled = enable
}

func IsColorEnabled() bool {
	return colorEnabled
}

// Colorize paints text with an ANSI foreground colour when colour is enabled.
func Colorize(c termenv.ANSIColor, text string) string {
	if !colorEnabled {
		return text
	}
	return termenv.String(text).Foreground(c).String()
}

func RedText(text string) string {
	return Colorize(termenv.ANSIRed, text)
}

func GreenText(text string) string {
	return Colorize(termenv.ANSIGreen, text)
}

func YellowText(text string) string {
	return Colorize(termenv.ANSIYellow, text)
}

func BlueText(text string) string {
	return Colorize(termenv.ANSIBlue, text)
}

func CyanText(text string) string {
	return Colorize(termenv.ANSICyan, text)
}

func GrayText(text string) string {
	return Colorize(termenv.ANSIBrightBlack, text)
}

func BoldText(text string) string {
	if !colorEnabled {
		return text
	}
	return termenv.String(text).Bold().String()
}
