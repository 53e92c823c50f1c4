package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

// FirebaseAdmin holds the service-account fields used to mint custom tokens.
type FirebaseAdmin struct {
	ProjectID   string
	ClientEmail string
	PrivateKey  string
}

// FirebaseClient is the public web config handed to the browser.
type FirebaseClient struct {
	APIKey            string `json:"apiKey"`
	AuthDomain        string `json:"authDomain"`
	ProjectID         string `json:"projectId"`
	StorageBucket     string `json:"storageBucket"`
	MessagingSenderID string `json:"messagingSenderId"`
	AppID             string `json:"appId"`
}

type IdentityProvider struct {
	JWTSecret   string
	JWTIssuer   string
	JWTAudience string

	// metadata sync; optional
	SecretKey string
	APIURL    string
}

type Settings struct {
	Port string

	FirebaseAdmin  FirebaseAdmin
	FirebaseClient FirebaseClient
	Identity       IdentityProvider

	GCSBucket string

	// empty allows any origin on the websocket upgrade
	AllowedOrigins []string

	RecruiterCacheTTL time.Duration
	RoleCacheTTL      time.Duration
	EventWorkers      int
}

// LoadSettings reads Settings from the environment. It does not fail on
// missing optional values; call Validate for the ones the server needs.
func LoadSettings() Settings {
	s := Settings{
		Port: envOr("PORT", "8080"),
		FirebaseAdmin: FirebaseAdmin{
			ProjectID:   os.Getenv("FIREBASE_PROJECT_ID"),
			ClientEmail: os.Getenv("FIREBASE_CLIENT_EMAIL"),
			PrivateKey:  UnescapePrivateKey(os.Getenv("FIREBASE_PRIVATE_KEY")),
		},
		FirebaseClient: FirebaseClient{
			APIKey:            os.Getenv("NEXT_PUBLIC_FIREBASE_API_KEY"),
			AuthDomain:        os.Getenv("NEXT_PUBLIC_FIREBASE_AUTH_DOMAIN"),
			ProjectID:         os.Getenv("NEXT_PUBLIC_FIREBASE_PROJECT_ID"),
			StorageBucket:     os.Getenv("NEXT_PUBLIC_FIREBASE_STORAGE_BUCKET"),
			MessagingSenderID: os.Getenv("NEXT_PUBLIC_FIREBASE_MESSAGING_SENDER_ID"),
			AppID:             os.Getenv("NEXT_PUBLIC_FIREBASE_APP_ID"),
		},
		Identity: IdentityProvider{
			JWTSecret:   os.Getenv("IDP_JWT_SECRET"),
			JWTIssuer:   os.Getenv("IDP_JWT_ISSUER"),
			JWTAudience: os.Getenv("IDP_JWT_AUDIENCE"),
			SecretKey:   os.Getenv("IDP_SECRET_KEY"),
			APIURL:      envOr("IDP_API_URL", "https://api.clerk.com/v1"),
		},
		GCSBucket:         os.Getenv("GCS_BUCKET"),
		AllowedOrigins:    envList("WS_ALLOWED_ORIGINS"),
		RecruiterCacheTTL: envDuration("RECRUITER_CACHE_TTL", 10*time.Minute),
		RoleCacheTTL:      envDuration("ROLE_CACHE_TTL", 10*time.Minute),
		EventWorkers:      envInt("EVENT_WORKERS", 2),
	}
	return s
}

func (s Settings) Validate() error {
	var missing []string
	if s.Identity.JWTSecret == "" {
		missing = append(missing, "IDP_JWT_SECRET")
	}
	if s.FirebaseAdmin.ProjectID == "" {
		missing = append(missing, "FIREBASE_PROJECT_ID")
	}
	if s.FirebaseAdmin.ClientEmail == "" {
		missing = append(missing, "FIREBASE_CLIENT_EMAIL")
	}
	if s.FirebaseAdmin.PrivateKey == "" {
		missing = append(missing, "FIREBASE_PRIVATE_KEY")
	}
	if len(missing) > 0 {
		return errors.New("missing environment variables: " + strings.Join(missing, ", "))
	}
	return nil
}

// UnescapePrivateKey turns the literal "\n" sequences that env files carry
// back into newlines so the PEM block parses.
func UnescapePrivateKey(v string) string {
	v = strings.Trim(v, `"`)
	return strings.ReplaceAll(v, `\n`, "\n")
}

func envOr(k, def string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return def
}

func envInt(k string, def int) int {
	if n, err := strconv.Atoi(strings.TrimSpace(os.Getenv(k))); err == nil && n > 0 {
		return n
	}
	return def
}

func envDuration(k string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	if v == "0" {
		return 0
	}
	d, err := time.ParseDuration(v)
	if err != nil || d < 0 {
		return def
	}
	return d
}

func envList(k string) []string {
	var out []string
	for _, v := range strings.Split(os.Getenv(k), ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
