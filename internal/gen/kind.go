package gen

import "fmt"

// Kind identifies an artifact.
type Kind int

const (
	_ Kind = iota

	KindDeclaration
	KindDefinition
	KindBinding
	KindBuildScript
)

var kindNames = map[Kind]string{
	KindDeclaration: "decl",
	KindDefinition:  "defn",
	KindBinding:     "go",
	KindBuildScript: "build",
}

// String returns the name accepted by ParseKind.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}

	return fmt.Sprintf("Kind(%d)", int(k))
}

// ParseKind resolves an artifact name: "decl", "defn", "go" or "build".
func ParseKind(name string) (Kind, error) {
	for k, n := range kindNames {
		if n == name {
			return k, nil
		}
	}

	return 0, fmt.Errorf("unknown artifact kind %q", name)
}
