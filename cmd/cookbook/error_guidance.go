package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"

	"cookbook/internal/api"
	"cookbook/internal/models"
)

// endpointSettings maps the facade's endpoint names to their config key
// suffix and env override.
var endpointSettings = []struct {
	name string
	env  string
}{
	{"create_url", "COOKBOOK_CREATE_URL"},
	{"list_url", "COOKBOOK_LIST_URL"},
	{"get_url", "COOKBOOK_GET_URL"},
	{"update_url", "COOKBOOK_UPDATE_URL"},
	{"delete_url", "COOKBOOK_DELETE_URL"},
	{"search_url", "COOKBOOK_SEARCH_URL"},
}

func formatCLIError(err error) []string {
	if err == nil {
		return nil
	}

	lines := []string{err.Error()}

	if errors.Is(err, api.ErrEndpointNotConfigured) || errors.Is(err, api.ErrNoIDPlaceholder) {
		for _, setting := range endpointSettings {
			if !strings.Contains(err.Error(), setting.name+":") {
				continue
			}
			lines = append(lines, fmt.Sprintf("hint: set endpoints.%s with: cookbook config set --global endpoints.%s <url>", setting.name, setting.name))
			lines = append(lines, fmt.Sprintf("hint: or export %s (a .env file in the working directory is also read).", setting.env))
		}
		if errors.Is(err, api.ErrNoIDPlaceholder) {
			lines = append(lines, "hint: per-recipe endpoint urls must contain an {id} placeholder.")
		}
		return uniqueLines(lines)
	}

	var verr *models.ValidationError
	if errors.As(err, &verr) {
		switch verr.Field {
		case "ingredients", "steps":
			lines = append(lines, fmt.Sprintf(`hint: --%s takes a JSON array, for example '["a","b"]'.`, verr.Field))
		case "pk":
			lines = append(lines, "hint: pass the recipe's partition key with --pk.")
		}
		return uniqueLines(lines)
	}

	var apiErr *api.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.Status == http.StatusUnauthorized, apiErr.Status == http.StatusForbidden:
			lines = append(lines, "hint: the endpoint rejected the request; check that the signed urls have not expired.")
		case apiErr.Status == http.StatusNotFound:
			lines = append(lines, "hint: verify the endpoint urls point at the recipe service.")
		case apiErr.Status == http.StatusTooManyRequests:
			lines = append(lines, "hint: the recipe service is throttling requests; retry shortly.")
		case apiErr.Status >= 500:
			lines = append(lines, "hint: the recipe service returned an internal error; retry or check its logs.")
		}
		return uniqueLines(lines)
	}

	if errors.Is(err, context.DeadlineExceeded) {
		lines = append(lines, "hint: request timed out; check the service or increase COOKBOOK_HTTP_TIMEOUT.")
		return uniqueLines(lines)
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		lines = append(lines,
			"hint: the recipe service could not be reached; check the endpoint urls and your network.",
			"hint: you can increase COOKBOOK_HTTP_TIMEOUT for slower environments.",
		)
		return uniqueLines(lines)
	}

	return uniqueLines(lines)
}

func uniqueLines(lines []string) []string {
	seen := make(map[string]struct{}, len(lines))
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if line == "" {
			continue
		}
		if _, ok := seen[line]; ok {
			continue
		}
		seen[line] = struct{}{}
		out = append(out, line)
	}
	return out
}
