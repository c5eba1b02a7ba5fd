// Package catalog holds the job roles and the skills each of them requires.
package catalog

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/spigell/resume-matcher/internal/utils"
)

// ErrUnknownRole is returned when a role is not part of the catalog.
var ErrUnknownRole = errors.New("unknown role")

type Role struct {
	Name   string   `mapstructure:"name" json:"name" yaml:"name"`
	Skills []string `mapstructure:"skills" json:"skills" yaml:"skills"`
}

// Catalog is an ordered, read-only set of roles. Iteration follows the
// order the roles were defined in.
type Catalog struct {
	roles []Role
	index map[string]int
}

var defaultRoles = []Role{
	{Name: "python developer", Skills: []string{"python", "django", "flask", "sql"}},
	{Name: "data analyst", Skills: []string{"python", "sql", "data science", "machine learning"}},
	{Name: "mern stack developer", Skills: []string{"mongodb", "express", "react", "node", "javascript", "html", "css"}},
	{Name: "machine learning engineer", Skills: []string{"python", "machine learning", "data science"}},
	{Name: "cloud engineer", Skills: []string{"aws", "cloud", "linux", "docker", "devops"}},
}

// Default returns the built-in catalog.
func Default() *Catalog {
	c, err := New(defaultRoles)
	if err != nil {
		panic(fmt.Sprintf("built-in role catalog is invalid: %v", err))
	}
	return c
}

// New validates roles and builds a catalog. Skills are lower-cased and
// deduplicated, role names are kept as given.
func New(roles []Role) (*Catalog, error) {
	if len(roles) == 0 {
		return nil, errors.New("at least one role is required")
	}

	c := &Catalog{
		roles: make([]Role, 0, len(roles)),
		index: make(map[string]int, len(roles)),
	}

	for i, role := range roles {
		name := strings.TrimSpace(role.Name)
		if name == "" {
			return nil, fmt.Errorf("role #%d: name is required", i+1)
		}
		if _, ok := c.index[name]; ok {
			return nil, fmt.Errorf("role %q is defined more than once", name)
		}

		c.index[name] = len(c.roles)
		c.roles = append(c.roles, Role{
			Name:   name,
			Skills: utils.SortedUnique(role.Skills),
		})
	}

	return c, nil
}

// Decode builds a catalog from a configuration value, usually the list found
// under the "roles" key.
func Decode(raw any) (*Catalog, error) {
	var roles []Role
	if err := mapstructure.Decode(raw, &roles); err != nil {
		return nil, fmt.Errorf("decode roles: %w", err)
	}

	return New(roles)
}

func (c *Catalog) Len() int {
	return len(c.roles)
}

// Names returns the role identifiers in catalog order.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.roles))
	for _, role := range c.roles {
		names = append(names, role.Name)
	}
	return names
}

// Roles returns a copy of all roles in catalog order.
func (c *Catalog) Roles() []Role {
	roles := make([]Role, 0, len(c.roles))
	for _, role := range c.roles {
		roles = append(roles, Role{Name: role.Name, Skills: append([]string(nil), role.Skills...)})
	}
	return roles
}

// Skills returns the required skills of the role.
func (c *Catalog) Skills(name string) ([]string, error) {
	i, ok := c.index[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownRole, name)
	}
	return append([]string(nil), c.roles[i].Skills...), nil
}
