package core

import "testing"

func TestSendCommandLocalizesEvidence(t *testing.T) {
	w, _ := newTestWorld(t, func(o *Options) {
		o.Areas[areaLobby].Evidence = []Evidence{
			{ID: 10, Name: "Badge", Description: "Shiny", Image: "badge.png"},
			{ID: 11, Name: "Autopsy", Description: "Report", Image: "autopsy.png", Positions: []string{"pro"}},
			{ID: 12, Name: "Knife", Description: "Bloody", Image: "knife.png", Positions: []string{"all"}},
		}
	})
	def := join(t, w, "def", 0)
	def.Position = "def"
	pro := join(t, w, "pro", 1)
	pro.Position = "pro"

	lobby := area(t, w, areaLobby)
	if got := lobby.EvidenceFor(def); len(got) != 2 || got[1] != "Knife&Bloody&knife.png" {
		t.Fatalf("unexpected evidence for defense %v", got)
	}
	if got := lobby.EvidenceFor(pro); len(got) != 3 {
		t.Fatalf("unexpected evidence for prosecution %v", got)
	}

	args := make([]any, 15)
	for i := range args {
		args[i] = ""
	}
	args[11] = 12
	w.Broadcast(Filter{Area: lobby}, "MS", args...)

	if ms := connOf(def).commands("MS"); len(ms) != 1 || ms[0] != "MS############1####%" {
		t.Fatalf("defense got %v", ms)
	}
	if ms := connOf(pro).commands("MS"); len(ms) != 1 || ms[0] != "MS############2####%" {
		t.Fatalf("prosecution got %v", ms)
	}
	if args[11] != 12 {
		t.Fatalf("caller arguments must not be modified")
	}
}

func TestClientRoles(t *testing.T) {
	c := newClient(0, "ipid", nil)
	if c.IsStaff() {
		t.Fatalf("new client should not be staff")
	}
	c.GrantRole(RoleCaseManager)
	c.GrantRole(RoleModerator)
	c.RevokeRole(RoleCaseManager)
	if !c.IsStaff() || !c.HasRole(RoleModerator) || c.HasRole(RoleCaseManager) {
		t.Fatalf("unexpected roles %08b", c.roles)
	}
	if RoleGameMaster.String() != "gm" {
		t.Fatalf("RoleGameMaster.String() = %q", RoleGameMaster.String())
	}
}

func TestSendHostMessageUsesHostname(t *testing.T) {
	w, _ := newTestWorld(t, func(o *Options) { o.Settings.Hostname = "Judge" })
	c := join(t, w, "c", 0)
	c.SendHostMessage("Order!")
	if ct := connOf(c).commands("CT"); len(ct) != 1 || ct[0] != "CT#Judge#Order!#%" {
		t.Fatalf("unexpected host chat %v", ct)
	}
}

func TestRealAddrStripsPort(t *testing.T) {
	w, _ := newTestWorld(t)
	c := connectAt(t, w, "203.0.113.9:27016", "x", 0)
	if got := c.RealAddr(); got != "203.0.113.9" {
		t.Fatalf("RealAddr = %q", got)
	}
}
