package port

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/mmr-tortoise/wpsite/internal/model"
	"github.com/mmr-tortoise/wpsite/internal/siteconfig"
)

const (
	// WordPressRangeStart is the first WordPress port the allocator hands out.
	WordPressRangeStart = 8000

	// WordPressRangeEnd is the last WordPress port the allocator hands out.
	WordPressRangeEnd = 8999

	// PhpMyAdminOffset is added to the WordPress port to obtain the
	// phpMyAdmin port of the same site.
	PhpMyAdminOffset = 1000
)

// SkippedEnv records an env file the allocator could not take ports from.
type SkippedEnv struct {
	// Path is the env file path.
	Path string

	// Err explains why the file was skipped.
	Err error
}

// Allocator hands out WordPress/phpMyAdmin port pairs that do not collide
// with the pairs of existing sites.
//
// The reserved set is owned by the instance. It is populated once, when the
// allocator is constructed, from the env files of the sites on disk. Create
// a new Allocator for every site creation so sites added in the meantime are
// seen; an Allocator is not safe for concurrent use.
type Allocator struct {
	// reserved holds every port already assigned to some site.
	reserved map[int]struct{}

	// skipped lists env files that contributed nothing to reserved.
	skipped []SkippedEnv
}

// NewAllocator builds an Allocator whose reserved set holds the
// PHPMYADMIN_PORT and WORDPRESS_PORT values of every site under sitesDir.
//
// A missing sitesDir yields an empty reserved set. An env file that is
// missing, unreadable or holds a non-integer port contributes nothing; it is
// reported by Skipped. Any other failure to list sitesDir is returned.
func NewAllocator(sitesDir string) (*Allocator, error) {
	a := &Allocator{reserved: make(map[int]struct{})}

	entries, err := os.ReadDir(sitesDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return a, nil
		}
		return nil, fmt.Errorf("failed to scan sites directory %s: %w", sitesDir, model.ClassifyFSError(err))
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		a.scanEnvFile(filepath.Join(sitesDir, entry.Name(), model.EnvFileName))
	}

	return a, nil
}

// NewAllocatorWithReserved builds an Allocator from an explicit reserved set
// without touching the filesystem.
func NewAllocatorWithReserved(ports ...int) *Allocator {
	a := &Allocator{reserved: make(map[int]struct{}, len(ports))}
	a.Reserve(ports...)
	return a
}

// scanEnvFile adds the ports declared in one env file to the reserved set.
func (a *Allocator) scanEnvFile(path string) {
	values, err := siteconfig.ReadEnvFile(path)
	if err != nil {
		a.skipped = append(a.skipped, SkippedEnv{Path: path, Err: err})
		return
	}

	for _, key := range []string{siteconfig.VarPhpMyAdminPort, siteconfig.VarWordPressPort} {
		raw, ok := values[key]
		if !ok {
			continue
		}
		p, err := strconv.Atoi(raw)
		if err != nil {
			a.skipped = append(a.skipped, SkippedEnv{
				Path: path,
				Err:  fmt.Errorf("%w: %s=%q is not an integer", model.ErrTypeMismatch, key, raw),
			})
			continue
		}
		a.reserved[p] = struct{}{}
	}
}

// Next returns the pair with the smallest WordPress port w in
// [WordPressRangeStart, WordPressRangeEnd] such that neither w nor
// w+PhpMyAdminOffset is reserved. The returned ports are not reserved by
// this call.
//
// When every candidate is blocked, Next fails with ErrPortsExhausted.
func (a *Allocator) Next() (model.PortPair, error) {
	for wp := WordPressRangeStart; wp <= WordPressRangeEnd; wp++ {
		pma := wp + PhpMyAdminOffset
		if a.IsReserved(wp) || a.IsReserved(pma) {
			continue
		}
		return model.PortPair{WordPress: wp, PhpMyAdmin: pma}, nil
	}
	return model.PortPair{}, fmt.Errorf("%w: no free pair in %d-%d", model.ErrPortsExhausted, WordPressRangeStart, WordPressRangeEnd)
}

// Reserve adds ports to the reserved set.
func (a *Allocator) Reserve(ports ...int) {
	for _, p := range ports {
		a.reserved[p] = struct{}{}
	}
}

// IsReserved reports whether p is in the reserved set.
func (a *Allocator) IsReserved(p int) bool {
	_, ok := a.reserved[p]
	return ok
}

// Reserved returns the reserved set in ascending order.
func (a *Allocator) Reserved() []int {
	ports := make([]int, 0, len(a.reserved))
	for p := range a.reserved {
		ports = append(ports, p)
	}
	sort.Ints(ports)
	return ports
}

// Skipped returns the env files that contributed nothing during the scan.
func (a *Allocator) Skipped() []SkippedEnv {
	return a.skipped
}
