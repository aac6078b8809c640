package config

// Setters for tests, which cannot go through CLI flag parsing

func (r *Retrieval) SetPath(path string) {
	r.configPath = path
}

func (l *Logger) Set(level, format, output string) {
	l.level = level
	l.format = format
	l.output = output
}
