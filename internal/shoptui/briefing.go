package shoptui

import (
	"fmt"
	"strings"
	"time"

	"github.com/Adnanskuyy/ShoppingABTest/internal/ui"
)

// Briefing returns the participant instructions as markdown.
func Briefing(duration time.Duration, showTrolley bool) string {
	var b strings.Builder
	b.WriteString("# Welcome to the shop\n\n")
	fmt.Fprintf(&b, "You have **%s** to look around and pick the products you would like to buy.\n\n", ui.FormatClock(duration))
	b.WriteString("- Use the arrow keys to walk along the shelves.\n")
	b.WriteString("- Press **E** to inspect the product in front of you.\n")
	b.WriteString("- In the product panel press **Enter** to add it to your cart, or **C** to put it back.\n")
	if showTrolley {
		b.WriteString("- Your trolley on the right shows what you have picked. Press **T** to hide or show it.\n")
	}
	b.WriteString("- Press **Q** when you are done. You will be asked to confirm.\n\n")
	b.WriteString("When the session ends you will receive a completion code. Enter it in the survey.\n\n")
	b.WriteString("Press **Enter** to start.\n")
	return b.String()
}
