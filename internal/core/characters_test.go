package core

import (
	"testing"
	"time"
)

func TestChangeCharacter(t *testing.T) {
	w, _ := newTestWorld(t)
	holder := join(t, w, "holder", 1)
	c := join(t, w, "c", CharSpectator)

	if code := userCode(t, w.ChangeCharacter(c, 99, false, nil)); code != ErrCodeInvalidCharacter {
		t.Fatalf("expected invalid_character, got %s", code)
	}
	err := w.ChangeCharacter(c, 1, false, nil)
	if code := userCode(t, err); code != ErrCodeCharacterTaken {
		t.Fatalf("expected character_taken, got %s", code)
	}
	if err.Error() != "Character Edgeworth not available." {
		t.Fatalf("unexpected message %q", err.Error())
	}

	c.Position = "def"
	if err := w.ChangeCharacter(c, 2, false, nil); err != nil {
		t.Fatalf("ChangeCharacter failed: %v", err)
	}
	if c.CharID != 2 || c.Position != "" {
		t.Fatalf("expected character 2 and reset position, got %d %q", c.CharID, c.Position)
	}
	if pv := connOf(c).commands("PV"); len(pv) != 1 || pv[0] != "PV#1#CID#2#%" {
		t.Fatalf("unexpected PV %v", pv)
	}

	if err := w.ChangeCharacter(c, 1, true, nil); err != nil {
		t.Fatalf("forced ChangeCharacter failed: %v", err)
	}
	if holder.CharID != CharSpectator {
		t.Fatalf("expected holder sent to character select, got %d", holder.CharID)
	}
	if done := connOf(holder).commands("DONE"); len(done) != 1 {
		t.Fatalf("expected holder to receive DONE")
	}
}

func TestChangeCharacterRestricted(t *testing.T) {
	w, _ := newTestWorld(t)
	office := area(t, w, areaOffice)
	c := join(t, w, "c", CharSpectator)
	place(t, w, c, areaOffice)

	if code := userCode(t, w.ChangeCharacter(c, 0, false, office)); code != ErrCodeCharacterTaken {
		t.Fatalf("expected restricted character refused, got %s", code)
	}
	c.GrantRole(RoleGameMaster)
	if err := w.ChangeCharacter(c, 0, false, office); err != nil {
		t.Fatalf("expected staff to pick restricted character: %v", err)
	}
}

func TestLeavingSpectatorArmsAFKTimer(t *testing.T) {
	w, mock := newTestWorld(t, func(o *Options) {
		o.Areas[areaLobby].AFKDelay = time.Minute
		o.Areas[areaLobby].AFKSendTo = areaLobby
	})
	c := join(t, w, "c", CharSpectator)

	if err := w.ChangeCharacter(c, 0, false, nil); err != nil {
		t.Fatalf("ChangeCharacter failed: %v", err)
	}
	mock.Add(time.Minute)
	runPosted(t, w, 1)
	if c.CharID != CharSpectator {
		t.Fatalf("expected AFK client in character select, got %d", c.CharID)
	}
}

func TestSendDoneHidesSneakers(t *testing.T) {
	w, _ := newTestWorld(t)
	sneaker := join(t, w, "sneaker", 0)
	sneaker.Visible = false
	join(t, w, "visible", 1)

	c := join(t, w, "c", CharUnselected)
	w.SendDone(c)

	want := []string{
		"CharsCheck#0#-1#0#0#%",
		"HP#1#10#%",
		"HP#2#10#%",
		"BN##%",
		"LE#%",
		"MM#1#%",
		"DONE#%",
	}
	got := connOf(c).sent
	if len(got) != len(want) {
		t.Fatalf("unexpected commands %q", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("command %d = %q, want %q", i, got[i], want[i])
		}
	}
	if c.CharID != CharSpectator {
		t.Fatalf("expected unselected client to become spectator")
	}

	staff := join(t, w, "staff", CharSpectator)
	staff.GrantRole(RoleModerator)
	w.SendDone(staff)
	if cc := connOf(staff).commands("CharsCheck"); len(cc) != 1 || cc[0] != "CharsCheck#-1#-1#0#0#%" {
		t.Fatalf("expected staff to see sneaker's character taken, got %v", cc)
	}
}

func TestRandomAvailableCharRespectsRestrictions(t *testing.T) {
	w, _ := newTestWorld(t)
	hallway := area(t, w, areaHallway)
	hallway.RestrictedChars["Phoenix"] = struct{}{}
	hallway.RestrictedChars["Maya"] = struct{}{}
	taker := join(t, w, "taker", 1)
	place(t, w, taker, areaHallway)

	for range 20 {
		id, ok := w.randomAvailableChar(hallway, false)
		if !ok || id != 3 {
			t.Fatalf("expected only Gumshoe available, got %d %v", id, ok)
		}
	}
}
