// Package all imports every store backend so they register themselves.
package all

import (
	_ "defiquiz/internal/store/bbolt"
	_ "defiquiz/internal/store/memory"
	_ "defiquiz/internal/store/valkey"
)
