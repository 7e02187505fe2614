package www

import (
	"net/http"
)

const welcome = "Welcome to the fabrication catalogue app! Here you can find information about engineering design projects and where they can be fabricated internally. Below is a list of the application endpoints."

type endpoint struct {
	Method      string `json:"method"`
	Path        string `json:"path"`
	Description string `json:"description"`
	Admin       bool   `json:"admin,omitempty"`
}

var endpoints = []endpoint{
	{"POST", "/auth/register", "Register user", false},
	{"POST", "/auth/login", "Login user", false},
	{"POST", "/auth/logout", "Logout user", false},
	{"PATCH", "/auth/promote_to_admin/", "Promote to admin", true},
	{"PATCH", "/users/update_info/", "Update user details", false},
	{"GET", "/users/", "Get all users", false},
	{"GET", "/users/{id}", "Get user by id", false},
	{"DELETE", "/users/delete_user/{id}", "Delete user by id", true},
	{"GET", "/users/{id}/comments", "Get user's comments", false},
	{"POST", "/locations/", "Create location", true},
	{"PATCH", "/locations/{id}", "Update location by id", true},
	{"GET", "/locations/", "Get all locations", false},
	{"GET", "/locations/{id}", "Get location by id", false},
	{"DELETE", "/locations/delete_location/{id}", "Delete location by id", true},
	{"GET", "/locations/{id}/catalogue", "Get location catalogue", false},
	{"POST", "/comments/", "Post comment", false},
	{"PATCH", "/comments/{id}", "Edit comment by id", false},
	{"GET", "/comments/", "Get all comments", false},
	{"GET", "/comments/{id}", "Get comment by id", false},
	{"DELETE", "/comments/delete_comment/{id}", "Delete comment by id", false},
	{"POST", "/projects/", "Create project", true},
	{"PATCH", "/projects/{id}", "Update project by id", true},
	{"GET", "/projects/", "Get all projects", false},
	{"GET", "/projects/{id}", "Get project by id", false},
	{"DELETE", "/projects/delete_project/{id}", "Delete project by id", true},
	{"GET", "/projects/{id}/suppliers", "Get manufactures by project id", false},
	{"GET", "/projects/{id}/drawings", "Get drawings by project id", false},
	{"GET", "/projects/{id}/comments", "Get comments by project id", false},
	{"POST", "/manufactures/", "Create manufacture", true},
	{"PATCH", "/manufactures/loc/{location_id}/proj/{project_id}", "Update manufacture", true},
	{"GET", "/manufactures/", "Get all manufactures", false},
	{"GET", "/manufactures/loc/{location_id}/proj/{project_id}", "Get manufacture", false},
	{"DELETE", "/manufactures/loc/{location_id}/proj/{project_id}", "Delete manufacture", true},
	{"POST", "/drawings/", "Create drawing", true},
	{"PATCH", "/drawings/{id}", "Update drawing by id", true},
	{"GET", "/drawings/", "Get all drawings", false},
	{"GET", "/drawings/{id}", "Get drawing by id", false},
	{"DELETE", "/drawings/delete_drawing/{id}", "Delete drawing by id", true},
	{"PUT", "/drawings/{id}/file", "Upload drawing file", true},
	{"GET", "/drawings/{id}/file", "Download drawing file", false},
	{"POST", "/countries/", "Create country", true},
	{"PATCH", "/countries/{id}", "Update country by id", true},
	{"GET", "/countries/", "Get all countries", false},
	{"GET", "/countries/{id}", "Get country by id", false},
	{"DELETE", "/countries/delete_country/{id}", "Delete country by id", true},
	{"POST", "/location-types/", "Create location type", true},
	{"PATCH", "/location-types/{id}", "Update location type by id", true},
	{"GET", "/location-types/", "Get all location types", false},
	{"GET", "/location-types/{id}", "Get location type by id", false},
	{"DELETE", "/location-types/delete_loc_type/{id}", "Delete location type by id", true},
	{"POST", "/currencies/", "Create currency", true},
	{"PATCH", "/currencies/{id}", "Update currency by id", true},
	{"GET", "/currencies/", "Get all currencies", false},
	{"GET", "/currencies/{id}", "Get currency by id", false},
	{"DELETE", "/currencies/delete_currency/{id}", "Delete currency by id", true},
	{"GET", "/audit", "Recent changes", true},
	{"GET", "/events", "Live change stream", true},
	{"GET", "/health", "Health check", false},
}

func (h *Handlers) apiHomepage(w http.ResponseWriter, r *http.Request) {
	h.jsonOK(w, map[string]any{
		"message":   welcome,
		"endpoints": endpoints,
	})
}

func (h *Handlers) apiHealthCheck(w http.ResponseWriter, r *http.Request) {
	h.jsonOK(w, map[string]any{
		"status":    "ok",
		"database":  h.engine.DB().Healthy(r.Context()),
		"messaging": h.engine.MessagingConnected(),
	})
}

// apiAuditLog lists the most recent audit rows, newest first.
func (h *Handlers) apiAuditLog(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 100)
	if limit > 1000 {
		limit = 1000
	}
	entries, err := h.engine.DB().ListAuditLog(limit)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.jsonOK(w, entries)
}
