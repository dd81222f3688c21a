package resolve

import (
	"sort"
	"strings"

	"github.com/crosscache-dev/crosscache/internal/lineindex"
)

// Generated returns the entities of a generated-source index associated with
// a unit by name: exact equality, unit-name prefix, or substring containment
// in either direction. Deliberately permissive — CreateFooParams belongs to
// CreateFoo without any declared naming convention, at the cost of some
// false positives. Results are sorted by entity name.
func Generated(unitName string, genIdx *lineindex.FileIndex) []lineindex.Entity {
	if genIdx == nil || unitName == "" {
		return nil
	}

	var entities []lineindex.Entity
	for name, e := range genIdx.Entities {
		if nameRelated(unitName, name) {
			entities = append(entities, e)
		}
	}
	sort.Slice(entities, func(i, j int) bool { return entities[i].Name < entities[j].Name })
	return entities
}

func nameRelated(unitName, entityName string) bool {
	if entityName == unitName || strings.HasPrefix(entityName, unitName) {
		return true
	}
	lowerUnit := strings.ToLower(unitName)
	lowerEntity := strings.ToLower(entityName)
	return strings.Contains(lowerEntity, lowerUnit) || strings.Contains(lowerUnit, lowerEntity)
}
