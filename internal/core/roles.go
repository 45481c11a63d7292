package core

// Login grants role to c when password matches an active credential.
func (w *World) Login(c *Client, role Role, password string) error {
	if c.HasRole(role) {
		return userError(ErrCodeAlreadyLoggedIn, "Already logged in.")
	}
	if w.creds == nil || !w.creds.Verify(role.String(), password, w.clock.Now()) {
		w.clientEvent(w.log.Warn(), c).Stringer("role", role).Msg("login failed")
		return userError(ErrCodeInvalidPassword, "Invalid password.")
	}

	c.GrantRole(role)
	c.InRP = false
	w.clientEvent(w.log.Info(), c).Stringer("role", role).Msg("logged in")
	w.ReloadMusicList(c)
	return nil
}

// LoginModerator logs c in as a moderator.
func (w *World) LoginModerator(c *Client, password string) error {
	return w.Login(c, RoleModerator, password)
}

// LoginCaseManager logs c in as a case manager.
func (w *World) LoginCaseManager(c *Client, password string) error {
	return w.Login(c, RoleCaseManager, password)
}

// LoginGameMaster logs c in as a game master.
func (w *World) LoginGameMaster(c *Client, password string) error {
	return w.Login(c, RoleGameMaster, password)
}

// Logout drops every staff role held by c.
func (w *World) Logout(c *Client) {
	if !c.IsStaff() {
		return
	}
	c.roles = 0
	w.clientEvent(w.log.Info(), c).Msg("logged out")
	w.ReloadMusicList(c)
}
