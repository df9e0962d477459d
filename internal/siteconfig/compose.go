package siteconfig

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/mmr-tortoise/wpsite/internal/model"
)

// placeholderPattern matches, in order of preference:
//  1. "$$"            an escaped dollar sign
//  2. "$NAME"         a bare placeholder
//  3. "${NAME}"       a braced placeholder
//  4. "$"             anything else, which is invalid
//
// Go's regexp alternation is leftmost-first, so the empty fourth group only
// matches when none of the others do.
var placeholderPattern = regexp.MustCompile(`\$(?:(\$)|([_a-zA-Z][_a-zA-Z0-9]*)|\{([_a-zA-Z][_a-zA-Z0-9]*)\}|())`)

// SubstituteTemplate replaces every placeholder in text with its value from
// vars. Substitution is strict:
//   - a placeholder naming a variable absent from vars fails with
//     ErrMissingPlaceholder (it is never left in place);
//   - a "$" that does not start a placeholder fails with ErrInvalidArgument;
//   - "$$" produces a literal "$".
func SubstituteTemplate(text string, vars model.Vars) (string, error) {
	values := vars.Map()

	var sb strings.Builder
	sb.Grow(len(text))

	last := 0
	for _, m := range placeholderPattern.FindAllStringSubmatchIndex(text, -1) {
		sb.WriteString(text[last:m[0]])
		last = m[1]

		switch {
		case m[2] >= 0: // escaped
			sb.WriteByte('$')

		case m[4] >= 0, m[6] >= 0: // named or braced
			name := ""
			if m[4] >= 0 {
				name = text[m[4]:m[5]]
			} else {
				name = text[m[6]:m[7]]
			}
			value, ok := values[name]
			if !ok {
				line, col := position(text, m[0])
				return "", fmt.Errorf("%w: %s (line %d, col %d)", model.ErrMissingPlaceholder, name, line, col)
			}
			sb.WriteString(value)

		default: // invalid
			line, col := position(text, m[0])
			return "", fmt.Errorf("%w: invalid placeholder in template: line %d, col %d", model.ErrInvalidArgument, line, col)
		}
	}
	sb.WriteString(text[last:])

	return sb.String(), nil
}

// position converts a byte offset into a 1-based line and column.
func position(text string, offset int) (int, int) {
	before := text[:offset]
	line := strings.Count(before, "\n") + 1
	col := offset - strings.LastIndex(before, "\n")
	return line, col
}

// UpdateComposeFile renders <sitePath>/docker-compose.yml in place using the
// substitution values for siteName and ports.
//
// The previous content is fully overwritten. Once rendered, the file holds no
// placeholders, so calling this again is inert: it cannot restore the
// template form or apply different values.
func UpdateComposeFile(sitePath, siteName string, ports model.PortPair) error {
	values, err := ResolvePorts(siteName, ports)
	if err != nil {
		return err
	}

	composePath := filepath.Join(sitePath, model.ComposeFileName)
	info, err := os.Stat(composePath)
	if err != nil {
		return fmt.Errorf("compose file %s: %w", composePath, model.ClassifyFSError(err))
	}

	data, err := os.ReadFile(composePath)
	if err != nil {
		return fmt.Errorf("failed to read compose file: %w", model.ClassifyFSError(err))
	}

	rendered, err := SubstituteTemplate(string(data), values)
	if err != nil {
		return fmt.Errorf("compose file %s: %w", composePath, err)
	}

	if err := ValidateCompose([]byte(rendered)); err != nil {
		return fmt.Errorf("compose file %s: %w", composePath, err)
	}

	if err := os.WriteFile(composePath, []byte(rendered), info.Mode().Perm()); err != nil {
		return fmt.Errorf("failed to write compose file: %w", model.ClassifyFSError(err))
	}
	return nil
}

// ValidateCompose checks that data is a well-formed YAML mapping.
// It does not check Compose semantics.
func ValidateCompose(data []byte) error {
	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("%w: rendered compose file is not valid YAML: %v", model.ErrInvalidArgument, err)
	}
	return nil
}

// ComposeService summarizes one service of a rendered compose file.
type ComposeService struct {
	// Name is the service key under "services".
	Name string `json:"name"`

	// ContainerName is the explicit container_name, if set.
	ContainerName string `json:"containerName,omitempty"`

	// Image is the service image, if set.
	Image string `json:"image,omitempty"`

	// Ports lists the published port mappings in "host:container" form.
	Ports []string `json:"ports,omitempty"`
}

// composeDocument is the subset of the Compose schema wpsite inspects.
type composeDocument struct {
	Services map[string]composeServiceDoc `yaml:"services"`
}

type composeServiceDoc struct {
	ContainerName string `yaml:"container_name"`
	Image         string `yaml:"image"`

	// Ports is a list whose items are either short-syntax strings
	// ("8000:80") or long-syntax mappings ({published: 8000, target: 80}).
	Ports []yaml.Node `yaml:"ports"`
}

// ComposeServices reads a rendered compose file and returns its services
// sorted by name.
func ComposeServices(composePath string) ([]ComposeService, error) {
	data, err := os.ReadFile(composePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read compose file: %w", model.ClassifyFSError(err))
	}

	var doc composeDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: failed to parse compose file %s: %v", model.ErrInvalidArgument, composePath, err)
	}

	services := make([]ComposeService, 0, len(doc.Services))
	for name, svc := range doc.Services {
		cs := ComposeService{
			Name:          name,
			ContainerName: svc.ContainerName,
			Image:         svc.Image,
		}
		for i := range svc.Ports {
			if p := portMapping(&svc.Ports[i]); p != "" {
				cs.Ports = append(cs.Ports, p)
			}
		}
		services = append(services, cs)
	}

	sort.Slice(services, func(i, j int) bool {
		return services[i].Name < services[j].Name
	})
	return services, nil
}

// portMapping normalizes a compose port entry to "host:container".
func portMapping(node *yaml.Node) string {
	switch node.Kind {
	case yaml.ScalarNode:
		return node.Value
	case yaml.MappingNode:
		var long struct {
			Published any `yaml:"published"`
			Target    int `yaml:"target"`
		}
		if err := node.Decode(&long); err != nil {
			return ""
		}
		if long.Published == nil {
			return strconv.Itoa(long.Target)
		}
		return fmt.Sprintf("%v:%d", long.Published, long.Target)
	default:
		return ""
	}
}
