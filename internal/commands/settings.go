package commands

// Configure merges settings into the shared blackboard that command handlers read.
func (r *Registry) Configure(settings map[string]any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for k, v := range settings {
		r.settings[k] = v
	}
}

// Setting returns the value stored under key, or def when it is unset.
func (r *Registry) Setting(key string, def any) any {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if v, ok := r.settings[key]; ok {
		return v
	}
	return def
}

// Settings returns a copy of the blackboard.
func (r *Registry) Settings() map[string]any {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]any, len(r.settings))
	for k, v := range r.settings {
		out[k] = v
	}
	return out
}

// SettingAs returns the setting under key as a T. It returns def when the
// key is unset or holds a value of another type.
func SettingAs[T any](r *Registry, key string, def T) T {
	if v, ok := r.Setting(key, nil).(T); ok {
		return v
	}
	return def
}
