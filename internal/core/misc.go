package core

import (
	"fmt"
	"regexp"
	"time"
)

const modCallCooldown = 30 * time.Second

var positions = map[string]bool{"": true, "def": true, "pro": true, "hld": true, "hlp": true, "jud": true, "wit": true}

// ChangePosition sets c's courtroom position.
func (w *World) ChangePosition(c *Client, pos string) error {
	if !positions[pos] {
		return userError(ErrCodeInvalidPosition, "Invalid position. Possible values: def, pro, hld, hlp, jud, wit.")
	}
	c.Position = pos
	return nil
}

// SetModCallDelay starts c's moderator call cooldown.
func (w *World) SetModCallDelay(c *Client) {
	c.modCallAt = w.clock.Now().Add(modCallCooldown)
}

// CanCallMod reports whether c's moderator call cooldown has passed.
func (w *World) CanCallMod(c *Client) bool {
	return w.clock.Now().After(c.modCallAt)
}

// SendMOTD sends the message of the day.
func (w *World) SendMOTD(c *Client) {
	c.SendHostMessage(fmt.Sprintf("=== MOTD ===\r\n%s\r\n=============", w.settings.MOTD))
}

var (
	vowels     = regexp.MustCompile(`(?i)[aeiou]`)
	consonants = regexp.MustCompile(`(?i)[bcdfghjklmnpqrstvwxyz]`)
	letterH    = regexp.MustCompile(`(?i)h`)
	spaces     = regexp.MustCompile(`\s+`)
)

// Disemvowel strips vowels from msg.
func Disemvowel(msg string) string { return removeLetters(msg, vowels) }

// Disemconsonant strips consonants from msg.
func Disemconsonant(msg string) string { return removeLetters(msg, consonants) }

// RemoveH strips the letter h from msg.
func RemoveH(msg string) string { return removeLetters(msg, letterH) }

func removeLetters(msg string, re *regexp.Regexp) string {
	return spaces.ReplaceAllString(re.ReplaceAllString(msg, ""), " ")
}
