package integration

import (
	"net/http"
	"strings"
	"testing"
)

func TestProfileFlow(t *testing.T) {
	t.Run("get_returns_profile", func(t *testing.T) {
		app := setupApp(t, "")
		access := app.registerAndLogin(t, "alice")

		rec := app.request("GET", "/profile/", "", access)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d %s", rec.Code, rec.Body.String())
		}

		profile := parseJSON(t, rec)["profile"].(map[string]interface{})
		if profile["points"].(float64) != 0 {
			t.Errorf("expected 0 points, got %v", profile["points"])
		}
		if profile["profile_picture"] != nil {
			t.Errorf("expected no picture, got %v", profile["profile_picture"])
		}
		if profile["profile_picture_url"] != nil {
			t.Errorf("expected no picture URL, got %v", profile["profile_picture_url"])
		}
	})

	t.Run("recreated_after_deletion", func(t *testing.T) {
		app := setupApp(t, "")
		access := app.registerAndLogin(t, "bob")

		if err := app.DB.Exec("DELETE FROM user_profiles").Error; err != nil {
			t.Fatalf("failed to remove profiles: %v", err)
		}

		rec := app.request("GET", "/profile/", "", access)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected profile access to recreate a missing profile, got %d %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("patch_updates_points", func(t *testing.T) {
		app := setupApp(t, "")
		access := app.registerAndLogin(t, "carol")

		rec := app.request("PATCH", "/profile/", `{"points":150}`, access)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d %s", rec.Code, rec.Body.String())
		}

		profile := parseJSON(t, rec)["profile"].(map[string]interface{})
		if profile["points"].(float64) != 150 {
			t.Errorf("expected 150 points, got %v", profile["points"])
		}
	})

	t.Run("patch_resolves_picture_url", func(t *testing.T) {
		app := setupApp(t, "")
		access := app.registerAndLogin(t, "dave")

		rec := app.request("PATCH", "/profile/", `{"profile_picture":"avatars/dave.png"}`, access)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d %s", rec.Code, rec.Body.String())
		}

		profile := parseJSON(t, rec)["profile"].(map[string]interface{})
		url, ok := profile["profile_picture_url"].(string)
		if !ok {
			t.Fatalf("expected a resolved picture URL, got %v", profile["profile_picture_url"])
		}
		if !strings.HasSuffix(url, "/avatars/dave.png") {
			t.Errorf("expected URL ending in the stored reference, got %s", url)
		}
		if !strings.HasPrefix(url, "http") {
			t.Errorf("expected an absolute URL, got %s", url)
		}
	})

	t.Run("negative_points_rejected_without_side_effects", func(t *testing.T) {
		app := setupApp(t, "")
		access := app.registerAndLogin(t, "erin")

		ok := app.request("PATCH", "/profile/", `{"points":10}`, access)
		if ok.Code != http.StatusOK {
			t.Fatalf("setup update failed: %d", ok.Code)
		}

		rec := app.request("PATCH", "/profile/", `{"points":-5,"profile_picture":"x.png"}`, access)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d %s", rec.Code, rec.Body.String())
		}

		after := app.request("GET", "/profile/", "", access)
		profile := parseJSON(t, after)["profile"].(map[string]interface{})
		if profile["points"].(float64) != 10 {
			t.Errorf("expected points untouched at 10, got %v", profile["points"])
		}
		if profile["profile_picture"] != nil {
			t.Errorf("expected picture untouched, got %v", profile["profile_picture"])
		}
	})

	t.Run("requires_token", func(t *testing.T) {
		app := setupApp(t, "")

		rec := app.request("GET", "/profile/", "", "")
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})
}
