package devenv

// WallabagTestConfig is read from dev/.state/wallabag_config.json5 by the
// tests that talk to a real server.
type WallabagTestConfig struct {
	BaseUrl  string `json:"base_url"`
	Username string `json:"username"`
	Password string `json:"password"`
	// an article the edit tests may toggle back and forth
	ArticleId int `json:"article_id"`
}

const WallabagTestConfigFile = "wallabag_config.json5"
