package api

import (
	shared "github.com/IvanChernomyrdin/go-authkeeper/internal/shared/models"
)

// Me запрашивает профиль текущего пользователя.
func (c *Client) Me(accessToken string) (shared.UserProfile, error) {
	var resp shared.UserProfile
	err := c.GetJSON("/users/me", &resp, accessToken)
	return resp, err
}

// UpdateProfile частично обновляет профиль.
//
// req.FullName.Set=false — поле не отправляется, Value=nil — отправляется null.
func (c *Client) UpdateProfile(accessToken string, req shared.UpdateProfileRequest) (shared.UserProfile, error) {
	body := map[string]any{}
	if req.FullName.Set {
		body["full_name"] = req.FullName
	}

	var resp shared.UserProfile
	err := c.PatchJSON("/users/me", body, &resp, accessToken)
	return resp, err
}

// Health проверяет liveness (/health) или readiness (/health/ready) сервера.
func (c *Client) Health(ready bool) (shared.HealthResponse, error) {
	path := "/health"
	if ready {
		path = "/health/ready"
	}
	var resp shared.HealthResponse
	err := c.GetJSON(path, &resp, "")
	return resp, err
}
