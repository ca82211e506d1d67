package config

import "github.com/joho/godotenv"

// loadEnvFiles loads KEY=VALUE files that exist. Variables already present in
// the environment win, so deployed settings are never overridden by a stray file.
func loadEnvFiles(paths ...string) {
	for _, path := range paths {
		_ = godotenv.Load(path)
	}
}
