package store

// migrateAssignedTo rewrites chore assignments that reference a child by
// name (legacy document shape) to the child's ID. Values that match neither
// a current ID nor a current name are preserved unchanged and logged.
// Running it twice produces no further changes. Caller holds s.mu.
func (s *Store) migrateAssignedTo() bool {
	if len(s.children) == 0 || len(s.chores) == 0 {
		return false
	}

	nameToID := make(map[string]string, len(s.children))
	validIDs := make(map[string]bool, len(s.children))
	for _, child := range s.children {
		if child.ID != "" {
			validIDs[child.ID] = true
			if child.Name != "" {
				nameToID[child.Name] = child.ID
			}
		}
	}

	changed := false
	for i := range s.chores {
		chore := &s.chores[i]
		for j, assignment := range chore.AssignedTo {
			if validIDs[assignment] {
				continue
			}
			if id, ok := nameToID[assignment]; ok {
				s.logger.Warn("migrating chore assignment from name to id",
					"chore", chore.Name, "name", assignment, "id", id)
				chore.AssignedTo[j] = id
				changed = true
				continue
			}
			s.logger.Warn("chore has unknown assigned_to value",
				"chore", chore.Name, "value", assignment)
		}
	}
	return changed
}
