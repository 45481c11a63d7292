package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/vovakirdan/courtserver/internal/auth"
	"github.com/vovakirdan/courtserver/internal/core"
)

// Config holds server configuration values.
type Config struct {
	Addr              string        `mapstructure:"addr" yaml:"addr"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout" yaml:"read_header_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
	LogLevel          string        `mapstructure:"log_level" yaml:"log_level"`

	Hostname          string        `mapstructure:"hostname" yaml:"hostname"`
	MOTD              string        `mapstructure:"motd" yaml:"motd"`
	PlayerLimit       int           `mapstructure:"playerlimit" yaml:"playerlimit"`
	ShownameMaxLength int           `mapstructure:"showname_max_length" yaml:"showname_max_length"`
	SpectatorName     string        `mapstructure:"spectator_name" yaml:"spectator_name"`
	SneakHandicap     time.Duration `mapstructure:"sneak_handicap" yaml:"sneak_handicap"`
	MusicFloodGuard   FloodConfig   `mapstructure:"music_change_floodguard" yaml:"music_change_floodguard"`
	// MaxFramesPerSecond bounds inbound websocket frames per connection.
	MaxFramesPerSecond float64 `mapstructure:"max_frames_per_second" yaml:"max_frames_per_second"`

	LegacySneakDarkWording bool `mapstructure:"legacy_sneak_dark_wording" yaml:"legacy_sneak_dark_wording"`

	IdentityDBPath string `mapstructure:"identity_db_path" yaml:"identity_db_path"`
	JWTSecret      string `mapstructure:"jwt_secret" yaml:"jwt_secret"`
	JWTIssuer      string `mapstructure:"jwt_issuer" yaml:"jwt_issuer"`

	Characters  []string           `mapstructure:"characters" yaml:"characters"`
	Music       []string           `mapstructure:"music" yaml:"music"`
	Areas       []AreaConfig       `mapstructure:"areas" yaml:"areas"`
	Credentials []CredentialConfig `mapstructure:"credentials" yaml:"credentials"`
}

// FloodConfig configures the music change flood guard.
type FloodConfig struct {
	TimesPerInterval int           `mapstructure:"times_per_interval" yaml:"times_per_interval"`
	IntervalLength   time.Duration `mapstructure:"interval_length" yaml:"interval_length"`
	MuteLength       time.Duration `mapstructure:"mute_length" yaml:"mute_length"`
}

// AreaConfig describes one area in the config file.
type AreaConfig struct {
	Name              string           `mapstructure:"name" yaml:"name"`
	Background        string           `mapstructure:"background" yaml:"background"`
	Status            string           `mapstructure:"status" yaml:"status,omitempty"`
	Lobby             bool             `mapstructure:"lobby" yaml:"lobby,omitempty"`
	Private           bool             `mapstructure:"private" yaml:"private,omitempty"`
	StartDark         bool             `mapstructure:"start_dark" yaml:"start_dark,omitempty"`
	Lock              string           `mapstructure:"lock" yaml:"lock,omitempty"`
	Reachable         []string         `mapstructure:"reachable" yaml:"reachable,omitempty"`
	RestrictedChars   []string         `mapstructure:"restricted_chars" yaml:"restricted_chars,omitempty"`
	AFKDelay          time.Duration    `mapstructure:"afk_delay" yaml:"afk_delay,omitempty"`
	AFKSendTo         int              `mapstructure:"afk_sendto" yaml:"afk_sendto,omitempty"`
	HPDef             int              `mapstructure:"hp_def" yaml:"hp_def"`
	HPPro             int              `mapstructure:"hp_pro" yaml:"hp_pro"`
	RPGetAreaAllowed  bool             `mapstructure:"rp_getarea_allowed" yaml:"rp_getarea_allowed"`
	RPGetAreasAllowed bool             `mapstructure:"rp_getareas_allowed" yaml:"rp_getareas_allowed"`
	Evidence          []EvidenceConfig `mapstructure:"evidence" yaml:"evidence,omitempty"`
}

// EvidenceConfig is one piece of evidence preloaded into an area.
type EvidenceConfig struct {
	Name        string   `mapstructure:"name" yaml:"name"`
	Description string   `mapstructure:"description" yaml:"description"`
	Image       string   `mapstructure:"image" yaml:"image"`
	Positions   []string `mapstructure:"positions" yaml:"positions,omitempty"`
}

// CredentialConfig is one staff credential. Windows restrict when it works.
type CredentialConfig struct {
	Role         string         `mapstructure:"role" yaml:"role"`
	PasswordHash string         `mapstructure:"password_hash" yaml:"password_hash"`
	Windows      []WindowConfig `mapstructure:"windows" yaml:"windows,omitempty"`
}

// WindowConfig is a weekly recurring validity window.
type WindowConfig struct {
	Weekday  string        `mapstructure:"weekday" yaml:"weekday"`
	Hour     int           `mapstructure:"hour" yaml:"hour"`
	Duration time.Duration `mapstructure:"duration" yaml:"duration"`
}

// Default returns configuration with reasonable starter defaults.
func Default() Config {
	return Config{
		Addr:              ":8080",
		ReadHeaderTimeout: 5 * time.Second,
		ShutdownTimeout:   5 * time.Second,
		LogLevel:          "info",

		Hostname:          "$H",
		MOTD:              "Welcome to the courthouse.",
		PlayerLimit:       100,
		ShownameMaxLength: 30,
		SpectatorName:     "SPECTATOR",
		SneakHandicap:     5 * time.Second,
		MusicFloodGuard: FloodConfig{
			TimesPerInterval: 3,
			IntervalLength:   20 * time.Second,
			MuteLength:       60 * time.Second,
		},
		MaxFramesPerSecond: 10,

		IdentityDBPath: "courtserver.db",
		JWTSecret:      "change-me",
		JWTIssuer:      "courtserver",

		Characters: []string{"Phoenix", "Edgeworth", "Maya", "Franziska", "Gumshoe"},
		Music:      []string{"Objection.mp3", "Cornered.mp3", "Trial.mp3"},
		Areas: []AreaConfig{
			{Name: "Lobby", Background: "gs4", Status: "IDLE", Lobby: true, HPDef: 10, HPPro: 10},
			{Name: "Courtroom", Background: "gs4", Status: "IDLE", Reachable: []string{"Lobby", "Hallway"}, HPDef: 10, HPPro: 10},
			{Name: "Hallway", Background: "hallway", Reachable: []string{"Lobby", "Courtroom", "Detention Center"}, HPDef: 10, HPPro: 10, RPGetAreaAllowed: true},
			{Name: "Detention Center", Background: "detention", Reachable: []string{"Hallway"}, HPDef: 10, HPPro: 10},
		},
	}
}

// UpdateFrom overwrites non-zero values from other config into receiver.
func (c *Config) UpdateFrom(other Config) {
	if other.Addr != "" {
		c.Addr = other.Addr
	}
	if other.ReadHeaderTimeout != 0 {
		c.ReadHeaderTimeout = other.ReadHeaderTimeout
	}
	if other.ShutdownTimeout != 0 {
		c.ShutdownTimeout = other.ShutdownTimeout
	}
	if other.LogLevel != "" {
		c.LogLevel = other.LogLevel
	}
	if other.IdentityDBPath != "" {
		c.IdentityDBPath = other.IdentityDBPath
	}
}

// Settings converts the server section to core settings.
func (c Config) Settings() core.Settings {
	return core.Settings{
		Hostname:          c.Hostname,
		MOTD:              c.MOTD,
		PlayerLimit:       c.PlayerLimit,
		ShownameMaxLength: c.ShownameMaxLength,
		SpectatorName:     c.SpectatorName,
		SneakHandicap:     c.SneakHandicap,
		Flood: core.FloodSettings{
			TimesPerInterval: c.MusicFloodGuard.TimesPerInterval,
			Interval:         c.MusicFloodGuard.IntervalLength,
			Mute:             c.MusicFloodGuard.MuteLength,
		},
		LegacySneakDarkWording: c.LegacySneakDarkWording,
	}
}

// AreaDefs converts the area list to core definitions. Evidence ids are
// assigned in file order across all areas.
func (c Config) AreaDefs() []core.AreaDef {
	defs := make([]core.AreaDef, 0, len(c.Areas))
	nextEvidence := 0
	for _, a := range c.Areas {
		def := core.AreaDef{
			Name:              a.Name,
			Background:        a.Background,
			Status:            a.Status,
			Lobby:             a.Lobby,
			Private:           a.Private,
			StartDark:         a.StartDark,
			Lock:              a.Lock,
			Reachable:         a.Reachable,
			RestrictedChars:   a.RestrictedChars,
			AFKDelay:          a.AFKDelay,
			AFKSendTo:         a.AFKSendTo,
			HPDef:             a.HPDef,
			HPPro:             a.HPPro,
			RPGetAreaAllowed:  a.RPGetAreaAllowed,
			RPGetAreasAllowed: a.RPGetAreasAllowed,
		}
		for _, e := range a.Evidence {
			def.Evidence = append(def.Evidence, core.Evidence{
				ID:          nextEvidence,
				Name:        e.Name,
				Description: e.Description,
				Image:       e.Image,
				Positions:   e.Positions,
			})
			nextEvidence++
		}
		defs = append(defs, def)
	}
	return defs
}

// CredentialTable builds the staff credential table.
func (c Config) CredentialTable() (*auth.Table, error) {
	creds := make([]auth.Credential, 0, len(c.Credentials))
	for i, cc := range c.Credentials {
		cred := auth.Credential{Role: cc.Role, PasswordHash: cc.PasswordHash}
		for j, wc := range cc.Windows {
			day, err := parseWeekday(wc.Weekday)
			if err != nil {
				return nil, fmt.Errorf("credential %d window %d: %w", i, j, err)
			}
			cred.Windows = append(cred.Windows, auth.Window{Weekday: day, Hour: wc.Hour, Duration: wc.Duration})
		}
		creds = append(creds, cred)
	}
	return auth.NewTable(creds)
}

// JWT returns the staff API token settings.
func (c Config) JWT() *auth.JWTConfig {
	return &auth.JWTConfig{
		Secret:   []byte(c.JWTSecret),
		Issuer:   c.JWTIssuer,
		Audience: c.JWTIssuer,
		TTL:      24 * time.Hour,
	}
}

func parseWeekday(s string) (time.Weekday, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for d := time.Sunday; d <= time.Saturday; d++ {
		name := strings.ToLower(d.String())
		if s == name || s == name[:3] {
			return d, nil
		}
	}
	return time.Sunday, fmt.Errorf("unknown weekday %q", s)
}
