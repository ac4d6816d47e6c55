package store

// PointsName returns the display name of the point currency.
func (s *Store) PointsName() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pointsName
}

// SetPointsName updates the display name of the point currency.
func (s *Store) SetPointsName(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pointsName = name
}

// PointsIcon returns the icon reference of the point currency.
func (s *Store) PointsIcon() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pointsIcon
}

// SetPointsIcon updates the icon reference of the point currency.
func (s *Store) SetPointsIcon(icon string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pointsIcon = icon
}
