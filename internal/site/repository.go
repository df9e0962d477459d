package site

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/mmr-tortoise/wpsite/internal/model"
	"github.com/mmr-tortoise/wpsite/internal/port"
	"github.com/mmr-tortoise/wpsite/internal/siteconfig"
)

// Keys written into a site's env file by SetSSHDetails and SetURL.
const (
	VarSSHUser     = "SSH_USER"
	VarSSHDomain   = "SSH_DOMAIN"
	VarSSHPassword = "SSH_PASSWORD"
	VarSiteURL     = "SITE_URL"
)

// Repository manages the site directories under one sites root.
type Repository struct {
	sitesDir string
	template fs.FS
	log      logrus.FieldLogger
}

// NewRepository returns a Repository rooted at sitesDir that creates new
// sites from template. A nil template selects the embedded default, and a
// nil logger the logrus standard logger.
func NewRepository(sitesDir string, template fs.FS, logger logrus.FieldLogger) *Repository {
	if template == nil {
		template = DefaultTemplate()
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Repository{sitesDir: sitesDir, template: template, log: logger}
}

// SitesDir returns the sites root.
func (r *Repository) SitesDir() string {
	return r.sitesDir
}

// path returns the directory of the site called name.
func (r *Repository) path(name string) string {
	return filepath.Join(r.sitesDir, name)
}

// Create scaffolds a new site:
//  1. the name is sanitized and must not name an existing site;
//  2. a port pair is allocated against the sites currently on disk;
//  3. the template is copied into <sites-root>/<name>;
//  4. docker-compose.yml is rendered and the substitution values, ports
//     included, are written into .env so later allocations see them.
//
// If any step after the copy fails, the partially created directory is
// removed.
func (r *Repository) Create(name string) (*model.Site, error) {
	if err := model.ValidateSiteName(name); err != nil {
		return nil, err
	}
	siteName := model.SanitizeSiteName(name)
	if siteName == "" {
		return nil, fmt.Errorf("%w: site name %q is empty after sanitizing", model.ErrInvalidArgument, name)
	}
	sitePath := r.path(siteName)
	logger := r.log.WithField("site", siteName)

	if _, err := os.Stat(sitePath); err == nil {
		return nil, fmt.Errorf("%w: site %q already exists at %s", model.ErrInvalidArgument, siteName, sitePath)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to check site directory: %w", model.ClassifyFSError(err))
	}

	allocator, err := port.NewAllocator(r.sitesDir)
	if err != nil {
		return nil, err
	}
	for _, s := range allocator.Skipped() {
		logger.WithError(s.Err).WithField("env", s.Path).Warn("Ignoring env file while collecting reserved ports")
	}

	ports, err := allocator.Next()
	if err != nil {
		return nil, err
	}
	logger.WithField("ports", ports.String()).Debug("Allocated ports")

	if err := os.MkdirAll(r.sitesDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create sites directory: %w", model.ClassifyFSError(err))
	}
	if err := copyTree(r.template, sitePath); err != nil {
		_ = os.RemoveAll(sitePath)
		return nil, fmt.Errorf("failed to copy site template: %w", err)
	}

	if err := r.render(sitePath, siteName, ports); err != nil {
		if rmErr := os.RemoveAll(sitePath); rmErr != nil {
			logger.WithError(rmErr).Error("Failed to clean up partially created site")
		}
		return nil, err
	}

	logger.Info("Site created")
	return &model.Site{
		Name:   siteName,
		Path:   sitePath,
		Ports:  ports,
		Status: model.StatusUnknown,
	}, nil
}

// render fills in a freshly copied site directory under the site lock.
func (r *Repository) render(sitePath, siteName string, ports model.PortPair) (err error) {
	lock, err := acquireLock(sitePath)
	if err != nil {
		return err
	}
	defer func() {
		if rerr := lock.release(); rerr != nil && err == nil {
			err = rerr
		}
	}()

	if err := siteconfig.UpdateComposeFile(sitePath, siteName, ports); err != nil {
		return err
	}

	envPath := filepath.Join(sitePath, model.EnvFileName)
	if err := ensureFile(envPath); err != nil {
		return err
	}
	values, err := siteconfig.ResolvePorts(siteName, ports)
	if err != nil {
		return err
	}
	return siteconfig.UpdateEnvFile(envPath, values)
}

// ensureFile creates an empty file at path unless one exists.
func ensureFile(path string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, model.ClassifyFSError(err))
	}
	return f.Close()
}

// checkName accepts only names that denote a direct child of the sites
// root and that Create could have produced. Anything else ("..", "a/b",
// "my blog") would let Load, Remove or an env update reach outside the
// site it names.
func checkName(name string) error {
	if err := model.ValidateSiteName(name); err != nil {
		return err
	}
	if name == "." || name == ".." || filepath.Base(name) != name || model.SanitizeSiteName(name) != name {
		return fmt.Errorf("%w: %q is not a site name", model.ErrInvalidArgument, name)
	}
	return nil
}

// Load returns the site called name. The site directory must exist. Ports
// are read from the env file when it holds them and left zero otherwise.
func (r *Repository) Load(name string) (*model.Site, error) {
	if err := checkName(name); err != nil {
		return nil, err
	}
	sitePath := r.path(name)

	info, err := os.Stat(sitePath)
	if err != nil {
		return nil, fmt.Errorf("site %q: %w", name, model.ClassifyFSError(err))
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: site %q: %s is not a directory", model.ErrNotFound, name, sitePath)
	}

	s := &model.Site{Name: name, Path: sitePath, Status: model.StatusUnknown}
	if values, err := siteconfig.ReadEnvFile(s.EnvPath()); err == nil {
		s.Ports.WordPress, _ = strconv.Atoi(values[siteconfig.VarWordPressPort])
		s.Ports.PhpMyAdmin, _ = strconv.Atoi(values[siteconfig.VarPhpMyAdminPort])
	} else {
		r.log.WithError(err).WithField("site", name).Debug("Site has no readable env file")
	}
	return s, nil
}

// Names returns the names of all sites, sorted. A missing sites root holds
// no sites. Directories whose names Create could not have produced, such as
// ".git", are not sites.
func (r *Repository) Names() ([]string, error) {
	entries, err := os.ReadDir(r.sitesDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list sites: %w", model.ClassifyFSError(err))
	}

	var names []string
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if err := checkName(e.Name()); err != nil {
			r.log.WithField("dir", e.Name()).Debug("Ignoring directory that is not a site")
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}

// List loads every site, in name order.
func (r *Repository) List() ([]*model.Site, error) {
	names, err := r.Names()
	if err != nil {
		return nil, err
	}

	sites := make([]*model.Site, 0, len(names))
	for _, name := range names {
		s, err := r.Load(name)
		if err != nil {
			return nil, err
		}
		sites = append(sites, s)
	}
	return sites, nil
}

// Remove deletes the site directory and everything in it.
//
// A missing site fails with ErrNotFound, a permission failure with
// ErrPermissionDenied. Failures are logged and returned.
func (r *Repository) Remove(name string) error {
	logger := r.log.WithField("site", name)

	s, err := r.Load(name)
	if err != nil {
		logger.WithError(err).Error("Failed to load site for removal")
		return err
	}

	lock, err := acquireLock(s.Path)
	if err != nil {
		logger.WithError(err).Error("Failed to lock site for removal")
		return err
	}

	if err := os.RemoveAll(s.Path); err != nil {
		_ = lock.release()
		err = model.ClassifyFSError(err)
		if errors.Is(err, model.ErrPermissionDenied) {
			logger.WithError(err).Error("Permission denied to remove site folder")
		} else {
			logger.WithError(err).Error("Failed to remove site folder")
		}
		return fmt.Errorf("failed to remove site %q: %w", name, err)
	}

	logger.Info("Site removed")
	return lock.release()
}

// SetSSHDetails stores the SSH user, domain and password in the site's env
// file. Existing values are replaced in place.
func (r *Repository) SetSSHDetails(name, user, domain, password string) error {
	return r.updateEnv(name, model.Vars{
		{Name: VarSSHUser, Value: user},
		{Name: VarSSHDomain, Value: domain},
		{Name: VarSSHPassword, Value: password},
	})
}

// SetURL validates rawURL and stores it in the site's env file.
func (r *Repository) SetURL(name, rawURL string) error {
	if err := model.ValidateURL(rawURL); err != nil {
		return err
	}
	return r.updateEnv(name, model.Vars{{Name: VarSiteURL, Value: rawURL}})
}

// updateEnv applies props to the env file of an existing site under the
// site lock.
func (r *Repository) updateEnv(name string, props model.Vars) (err error) {
	s, err := r.Load(name)
	if err != nil {
		return err
	}

	lock, err := acquireLock(s.Path)
	if err != nil {
		return err
	}
	defer func() {
		if rerr := lock.release(); rerr != nil && err == nil {
			err = rerr
		}
	}()

	if err := siteconfig.UpdateEnvFile(s.EnvPath(), props); err != nil {
		return err
	}
	r.log.WithField("site", name).WithField("keys", props.Names()).Debug("Updated env file")
	return nil
}

// Package would archive the site's sources and database.
func (r *Repository) Package(name string) error {
	return fmt.Errorf("%w: packaging site %q", model.ErrNotImplemented, name)
}

// Upload would push a packaged site to its remote server.
func (r *Repository) Upload(name string) error {
	return fmt.Errorf("%w: uploading site %q", model.ErrNotImplemented, name)
}

// Download would fetch a site's sources and database from its remote server.
func (r *Repository) Download(name string) error {
	return fmt.Errorf("%w: downloading site %q", model.ErrNotImplemented, name)
}
