package config

import "strings"

const DefaultRESTURL = "http://localhost:8080/wp-json/gmkb/v2/"

// Environment is what a generator client needs to know about the WordPress install it
// talks to. It is resolved once and passed to every engine.
type Environment struct {
	RESTURL     string
	Nonce       string
	PublicNonce string
	PostID      string
	LoggedIn    bool
}

// Sources checked in order for each value; the first non-empty one wins.
var (
	restURLKeys     = []string{"GMKB_REST_URL", "GMKB_API_BASE", "WP_REST_URL"}
	nonceKeys       = []string{"GMKB_REST_NONCE", "GMKB_NONCE", "WP_REST_NONCE"}
	publicNonceKeys = []string{"GMKB_PUBLIC_NONCE", "GMKB_PUBLIC_AI_NONCE"}
	postIDKeys      = []string{"GMKB_POST_ID", "GMKB_MEDIA_KIT_ID"}
)

// LoadEnvironment resolves the client environment from environment variables. A post id
// or GMKB_LOGGED_IN=true marks a logged-in builder session.
func LoadEnvironment() Environment {
	env := Environment{
		RESTURL:     firstEnv(restURLKeys...),
		Nonce:       firstEnv(nonceKeys...),
		PublicNonce: firstEnv(publicNonceKeys...),
		PostID:      firstEnv(postIDKeys...),
	}
	if env.RESTURL == "" {
		env.RESTURL = DefaultRESTURL
	}
	env.RESTURL = NormalizeRESTURL(env.RESTURL)
	env.LoggedIn = env.PostID != "" || getEnvAsBool("GMKB_LOGGED_IN", false)
	return env
}

// NormalizeRESTURL makes sure the REST base ends with a slash so "ai/generate" can be appended.
func NormalizeRESTURL(u string) string {
	u = strings.TrimSpace(u)
	if u != "" && !strings.HasSuffix(u, "/") {
		u += "/"
	}
	return u
}

// Endpoint joins the REST base and a route such as "ai/generate".
func (e Environment) Endpoint(route string) string {
	return NormalizeRESTURL(e.RESTURL) + strings.TrimPrefix(route, "/")
}
