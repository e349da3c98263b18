package handlers

import "net/http"

// getParam reads a path or query parameter whether the router stored it with
// a leading colon or via the standard net/http PathValue API.
func getParam(r *http.Request, name string) string {
	if r == nil {
		return ""
	}

	if val := r.URL.Query().Get(":" + name); val != "" {
		return val
	}

	if val := r.URL.Query().Get(name); val != "" {
		return val
	}

	return r.PathValue(name)
}

func playerIDFromContext(r *http.Request) (int, bool) {
	playerID, ok := r.Context().Value("player_id").(int)
	return playerID, ok
}
