package modulemd

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/leapstack-labs/modcheck/pkg/lint"
)

type rawDocument struct {
	Document string  `yaml:"document"`
	Version  int     `yaml:"version"`
	Data     rawData `yaml:"data"`
}

type rawData struct {
	Name         string        `yaml:"name"`
	Stream       string        `yaml:"stream"`
	Summary      string        `yaml:"summary"`
	Description  string        `yaml:"description"`
	API          *rawAPI       `yaml:"api"`
	Components   rawComponents `yaml:"components"`
	Dependencies yaml.Node     `yaml:"dependencies"`
}

type rawAPI struct {
	RPMs []string `yaml:"rpms"`
}

type rawComponents struct {
	RPMs    componentList `yaml:"rpms"`
	Modules componentList `yaml:"modules"`
}

type rawComponent struct {
	Rationale  string `yaml:"rationale"`
	Repository string `yaml:"repository"`
	Ref        string `yaml:"ref"`
	BuildOrder int    `yaml:"buildorder"`
}

type namedComponent struct {
	name string
	rawComponent
}

// componentList keeps a components mapping in document order.
type componentList []namedComponent

func (l *componentList) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: components must be a mapping", node.Line)
	}
	if err := checkDuplicateKeys(node); err != nil {
		return err
	}
	out := make(componentList, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		var c rawComponent
		if err := node.Content[i+1].Decode(&c); err != nil {
			return err
		}
		out = append(out, namedComponent{name: node.Content[i].Value, rawComponent: c})
	}
	*l = out
	return nil
}

func (l componentList) infos(kind lint.ComponentKind) []lint.ComponentInfo {
	if len(l) == 0 {
		return nil
	}
	infos := make([]lint.ComponentInfo, 0, len(l))
	for _, c := range l {
		infos = append(infos, lint.ComponentInfo{
			Name:       c.name,
			Kind:       kind,
			Rationale:  trimText(c.Rationale),
			Repository: c.Repository,
			Ref:        c.Ref,
			BuildOrder: c.BuildOrder,
		})
	}
	return infos
}

// checkDuplicateKeys rejects a mapping that repeats a key. yaml.v3 does this
// for the types it decodes itself but not inside custom unmarshalers.
func checkDuplicateKeys(node *yaml.Node) error {
	seen := make(map[string]int, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		key := node.Content[i]
		if line, ok := seen[key.Value]; ok {
			return fmt.Errorf("line %d: mapping key %q already defined at line %d", key.Line, key.Value, line)
		}
		seen[key.Value] = key.Line
	}
	return nil
}

type dependencies struct {
	requires      []lint.DependencyInfo
	buildRequires []lint.DependencyInfo
}

// dependencyMap keeps a module: stream(s) mapping in document order.
// A scalar value is one stream; a sequence lists several.
type dependencyMap []lint.DependencyInfo

func (m *dependencyMap) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: dependencies must be a mapping", node.Line)
	}
	if err := checkDuplicateKeys(node); err != nil {
		return err
	}
	var out dependencyMap
	for i := 0; i+1 < len(node.Content); i += 2 {
		module, value := node.Content[i].Value, node.Content[i+1]
		switch value.Kind {
		case yaml.ScalarNode:
			out = append(out, lint.DependencyInfo{Module: module, Stream: value.Value})
		case yaml.SequenceNode:
			if len(value.Content) == 0 {
				out = append(out, lint.DependencyInfo{Module: module, Stream: AnyStream})
			}
			for _, s := range value.Content {
				out = append(out, lint.DependencyInfo{Module: module, Stream: s.Value})
			}
		default:
			return fmt.Errorf("line %d: streams for %s must be a string or list", value.Line, module)
		}
	}
	*m = out
	return nil
}

type rawDependencyBlock struct {
	Requires      dependencyMap `yaml:"requires"`
	BuildRequires dependencyMap `yaml:"buildrequires"`
}

// decodeV1Dependencies reads the single v1 dependencies mapping.
func decodeV1Dependencies(node yaml.Node) (dependencies, error) {
	if node.Kind == 0 {
		return dependencies{}, nil
	}
	var block rawDependencyBlock
	if err := node.Decode(&block); err != nil {
		return dependencies{}, err
	}
	return dependencies{requires: block.Requires, buildRequires: block.BuildRequires}, nil
}

// decodeV2Dependencies flattens the v2 list of dependency blocks.
// A module/stream pair repeated across blocks is reported once.
func decodeV2Dependencies(node yaml.Node) (dependencies, error) {
	if node.Kind == 0 {
		return dependencies{}, nil
	}
	var blocks []rawDependencyBlock
	if err := node.Decode(&blocks); err != nil {
		return dependencies{}, err
	}

	var deps dependencies
	seenReq := make(map[lint.DependencyInfo]bool)
	seenBuild := make(map[lint.DependencyInfo]bool)
	for _, b := range blocks {
		deps.requires = appendUnique(deps.requires, b.Requires, seenReq)
		deps.buildRequires = appendUnique(deps.buildRequires, b.BuildRequires, seenBuild)
	}
	return deps, nil
}

func appendUnique(dst, src []lint.DependencyInfo, seen map[lint.DependencyInfo]bool) []lint.DependencyInfo {
	for _, d := range src {
		if seen[d] {
			continue
		}
		seen[d] = true
		dst = append(dst, d)
	}
	return dst
}
