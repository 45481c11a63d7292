package core

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// String renders the entry as a history line.
func (e ShownameEntry) String() string {
	actor := "Self"
	if e.Forced {
		actor = "Was"
	}
	stamp := e.At.Format(time.ANSIC)
	if e.Value == "" {
		return fmt.Sprintf("%s | %s cleared", stamp, actor)
	}
	return fmt.Sprintf("%s | %s set to %s", stamp, actor, e.Value)
}

// ChangeShowname sets c's showname. forced marks a change made by someone
// other than the client. A non-empty showname must be unique in the area.
func (w *World) ChangeShowname(c *Client, showname string, forced bool) error {
	if limit := w.settings.ShownameMaxLength; limit > 0 && utf8.RuneCountInString(showname) > limit {
		return userError(ErrCodeShownameTooLong, fmt.Sprintf(
			"Given showname %s exceeds the server's character limit of %d.", showname, limit))
	}
	if showname != "" && w.shownameTaken(c, showname, c.Area) {
		return userError(ErrCodeShownameInUse, fmt.Sprintf(
			"Given showname %s is already in use in this area.", showname))
	}
	w.recordShowname(c, showname, forced)
	return nil
}

func (w *World) shownameTaken(c *Client, showname string, a *Area) bool {
	for _, o := range a.Clients() {
		if o != c && o.Showname == showname {
			return true
		}
	}
	return false
}

func (w *World) recordShowname(c *Client, showname string, forced bool) {
	if c.Showname != showname {
		c.shownames = append(c.shownames, ShownameEntry{At: w.clock.Now(), Forced: forced, Value: showname})
	}
	c.Showname = showname
}

// ShownameHistory renders c's showname log.
func (w *World) ShownameHistory(c *Client) string {
	var b strings.Builder
	fmt.Fprintf(&b, "== Showname history of client %d ==", c.ID)
	if len(c.shownames) == 0 {
		b.WriteString("\r\nClient has not changed their showname since joining the server.")
		return b.String()
	}
	for _, e := range c.shownames {
		b.WriteString("\r\n*")
		b.WriteString(e.String())
	}
	return b.String()
}
