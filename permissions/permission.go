package permissions

import (
	"cowork/shared/constant"
	_ "embed"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
)

//go:embed permissions.json
var permissionsData []byte

// Permission lists the roles allowed on one route. Skip marks a public route; an
// empty role list admits any authenticated caller.
type Permission struct {
	Permissions []string `json:"permissions"`
	Path        string   `json:"path"`
	Method      string   `json:"method"`
	Skip        bool     `json:"skip"`
}

func (p Permission) Allows(role string) bool {
	return p.Skip || len(p.Permissions) == 0 || slices.Contains(p.Permissions, role)
}

type PermissionData struct {
	Endpoints []Permission `json:"endpoints"`
	Skip      bool         `json:"skip"`

	index map[string]Permission
}

func routeKey(method, path string) string {
	return strings.ToUpper(method) + " " + strings.TrimSuffix(path, "/")
}

// FindPermissions looks up a chi route pattern. A trailing slash is not significant.
func (r *PermissionData) FindPermissions(path, method string) Permission {
	if r.index == nil {
		r.buildIndex()
	}

	return r.index[routeKey(method, path)]
}

func (r *PermissionData) buildIndex() {
	r.index = make(map[string]Permission, len(r.Endpoints))
	for _, endpoint := range r.Endpoints {
		r.index[routeKey(endpoint.Method, endpoint.Path)] = endpoint
	}
}

// Validate rejects duplicate routes and roles the service does not issue.
func (r *PermissionData) Validate() error {
	seen := map[string]bool{}
	known := []string{constant.RoleAdmin, constant.RoleUser}

	for _, endpoint := range r.Endpoints {
		key := routeKey(endpoint.Method, endpoint.Path)
		if seen[key] {
			return fmt.Errorf("duplicate permission for %s", key)
		}

		seen[key] = true

		for _, role := range endpoint.Permissions {
			if !slices.Contains(known, role) {
				return fmt.Errorf("unknown role %q on %s", role, key)
			}
		}
	}

	return nil
}

var (
	loaded     *PermissionData
	loadedOnce sync.Once
)

// Get decodes the embedded table once. A malformed table yields nil, which the
// RBAC middleware treats as deny-all.
func Get() *PermissionData {
	loadedOnce.Do(func() {
		loaded = parse(permissionsData)
	})

	return loaded
}

func parse(raw []byte) *PermissionData {
	var data PermissionData

	if err := json.Unmarshal(raw, &data); err != nil {
		log.Error().Err(err).Msg("failed to decode embedded permissions")

		return nil
	}

	if err := data.Validate(); err != nil {
		log.Error().Err(err).Msg("embedded permissions rejected")

		return nil
	}

	data.buildIndex()

	log.Info().Int("endpoints", len(data.Endpoints)).Msg("permissions loaded")

	return &data
}
