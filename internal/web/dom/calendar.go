package dom

import (
	"fmt"
	"html"
	"strings"

	"github.com/signalsfoundry/orrery/internal/orrery"
)

// calendarHTML renders the month widget. Day cells carry data-day and the
// month buttons data-calendar-step for the click handler.
func calendarHTML(g orrery.MonthGrid) string {
	var b strings.Builder
	b.WriteString(`<div class="calendar-head">`)
	b.WriteString(`<button type="button" data-calendar-step="-1">‹</button>`)
	fmt.Fprintf(&b, `<span class="calendar-title">%s</span>`, html.EscapeString(g.Title()))
	b.WriteString(`<button type="button" data-calendar-step="1">›</button></div>`)
	b.WriteString(`<table><thead><tr>`)
	for _, label := range orrery.WeekdayLabels {
		fmt.Fprintf(&b, `<th>%s</th>`, label)
	}
	b.WriteString(`</tr></thead><tbody>`)
	for _, week := range g.Weeks {
		b.WriteString(`<tr>`)
		for _, day := range week {
			if day == 0 {
				b.WriteString(`<td></td>`)
				continue
			}
			var class []string
			if day == g.Selected {
				class = append(class, "selected")
			}
			if day == g.Today {
				class = append(class, "today")
			}
			fmt.Fprintf(&b, `<td data-day="%d" class="%s">%d</td>`, day, strings.Join(class, " "), day)
		}
		b.WriteString(`</tr>`)
	}
	b.WriteString(`</tbody></table>`)
	return b.String()
}
