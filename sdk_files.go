// Copyright (c) Roman Atachiants and contributors. All rights reserved.
// Licensed under the MIT license. See LICENSE file in the project root for details.

package ultima

import (
	"fmt"

	"github.com/kelindar/uopath/internal/uofile"
)

// cacheKey represents a string key for caching files
type cacheKey string

// loadRadarcol loads the radar colors file
func (s *SDK) loadRadarcol() (*uofile.File, error) {
	return s.load([]string{"radarcol.mul"}, 0)
}

// loadTiledata loads the tiledata file
func (s *SDK) loadTiledata() (*uofile.File, error) {
	return s.load([]string{
		"tiledata.mul",
	}, 0, uofile.WithDecodeMUL(decodeTileDataFile))
}

// loadMap loads a specific map file (mapX.mul, where X is the map ID)
func (s *SDK) loadMap(mapID int) (*uofile.File, error) {
	return s.load([]string{
		fmt.Sprintf("map%dLegacyMUL.uop", mapID),
		fmt.Sprintf("map%d.mul", mapID),
	}, 0, uofile.WithStrict())
}

// loadStatics loads the statics files for a specific map ID
func (s *SDK) loadStatics(mapID int) (*uofile.File, error) {
	return s.load([]string{
		fmt.Sprintf("statics%dLegacyMUL.uop", mapID),
		fmt.Sprintf("statics%d.mul", mapID),
		fmt.Sprintf("staidx%d.mul", mapID),
	}, 0,
		uofile.WithIndexLength(12),
		uofile.WithExtra(),
	)
}

// loadMulti loads the multi files
func (s *SDK) loadMulti() (*uofile.File, error) {
	return s.load([]string{
		"housing.bin", // UOP format
		"multi.mul",   // MUL format
		"multi.idx",
	}, 0x2200, uofile.WithIndexLength(14))
}

// load loads a file with the given file names and length
// It tries to find the file in cache first, if not found, it creates a new file handle and caches it
// The fileNames parameter should contain possible filenames to look for (e.g., both mul and uop variants)
// length represents the expected number of entries in the file
// options are passed to the underlying uofile.File creation
func (s *SDK) load(fileNames []string, length int, options ...uofile.Option) (*uofile.File, error) {
	key := cacheKey(fileNames[0])
	if f, ok := s.files.Load(key); ok {
		return f.(*uofile.File), nil
	}

	// Not in cache, create new file
	file := uofile.New(s.basePath, fileNames, length, options...)

	// Store in cache (use LoadOrStore to handle potential race conditions)
	actual, loaded := s.files.LoadOrStore(key, file)
	if loaded {
		// Another goroutine beat us to it, close our file and use the cached one
		file.Close()
		return actual.(*uofile.File), nil
	}

	return file, nil
}

// closeAllFiles closes all open file handles
func (s *SDK) closeAllFiles() {
	s.files.Range(func(key, value interface{}) bool {
		if file, ok := value.(*uofile.File); ok {
			file.Close()
		}
		s.files.Delete(key)
		return true
	})
}
