package color_test

import (
	"strings"
	"testing"

	"vmctx/pkg/color"

	"github.com/stretchr/testify/assert"
)

func TestColorToggle(t *testing.T) {
	prev := color.IsColorEnabled()
	t.Cleanup(func() { color.EnableColor(prev) })

	color.EnableColor(false)
	assert.Equal(t, "ip", color.CyanText("ip"))
	assert.Equal(t, "ip", color.BoldText("ip"))

	color.EnableColor(true)
	painted := color.RedText("ip")
	assert.NotEqual(t, "ip", painted)
	assert.True(t, strings.Contains(painted, "ip"))
	assert.True(t, strings.HasPrefix(painted, "\x1b["))
}
