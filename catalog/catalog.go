package catalog

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/go-sif/sifread"
	"github.com/go-sif/sifread/datasource/file"
	"github.com/go-sif/sifread/datasource/parser/parquet"
	"github.com/go-sif/sifread/errors"
	"github.com/go-sif/sifread/fileio"
	"github.com/go-sif/sifread/logging"
)

// Table describes an entry in a Catalog
type Table struct {
	Name        string // the name of the table, as it was registered
	IsTemporary bool   // true for temporary views, false for warehouse tables
}

// Catalog holds the temporary views of a session, and locates the
// persistent tables of a warehouse directory
type Catalog struct {
	lock      sync.RWMutex
	views     map[string]*view
	fio       fileio.FileIO
	warehouse string
	logger    *logging.Logger
}

type view struct {
	name string
	df   sifread.DataFrame
}

// New creates an empty Catalog. If warehouse is empty, persistent tables are unavailable.
func New(fio fileio.FileIO, warehouse string, logger *logging.Logger) *Catalog {
	return &Catalog{
		views:     make(map[string]*view),
		fio:       fio,
		warehouse: warehouse,
		logger:    logger,
	}
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func validateName(name string) error {
	if len(strings.TrimSpace(name)) == 0 {
		return fmt.Errorf("table name cannot be empty")
	}
	if strings.ContainsAny(name, "/\\") || strings.HasPrefix(name, "_") || strings.HasPrefix(name, ".") {
		return fmt.Errorf("invalid table name %q", name)
	}
	return nil
}

// CreateTempView registers a DataFrame under a name. It is an error if a
// temporary view already uses that name.
func (c *Catalog) CreateTempView(name string, df sifread.DataFrame) error {
	if err := validateName(name); err != nil {
		return err
	}
	c.lock.Lock()
	defer c.lock.Unlock()
	key := normalizeName(name)
	if _, ok := c.views[key]; ok {
		return &errors.TableAlreadyExistsError{Name: name}
	}
	c.views[key] = &view{name: strings.TrimSpace(name), df: df}
	c.logger.Debugf("Created temporary view %s", name)
	return nil
}

// CreateOrReplaceTempView registers a DataFrame under a name, replacing any
// temporary view which already uses that name
func (c *Catalog) CreateOrReplaceTempView(name string, df sifread.DataFrame) error {
	if err := validateName(name); err != nil {
		return err
	}
	c.lock.Lock()
	defer c.lock.Unlock()
	c.views[normalizeName(name)] = &view{name: strings.TrimSpace(name), df: df}
	c.logger.Debugf("Created or replaced temporary view %s", name)
	return nil
}

// DropTempView removes a temporary view, returning true iff it existed
func (c *Catalog) DropTempView(name string) bool {
	c.lock.Lock()
	defer c.lock.Unlock()
	key := normalizeName(name)
	_, ok := c.views[key]
	delete(c.views, key)
	return ok
}

// ClearTempViews removes every temporary view, returning how many there were
func (c *Catalog) ClearTempViews() int {
	c.lock.Lock()
	defer c.lock.Unlock()
	n := len(c.views)
	c.views = make(map[string]*view)
	return n
}

// LookupView resolves a name to a DataFrame. Temporary views shadow warehouse tables.
func (c *Catalog) LookupView(ctx context.Context, name string) (sifread.DataFrame, error) {
	c.lock.RLock()
	v, ok := c.views[normalizeName(name)]
	c.lock.RUnlock()
	if ok {
		return v.df, nil
	}
	exists, err := c.TableExists(ctx, name)
	if err != nil {
		return nil, err
	} else if !exists {
		return nil, &errors.TableNotFoundError{Name: name}
	}
	path := c.TablePath(name)
	p := parquet.CreateParser(&parquet.ParserConf{})
	source := file.CreateDataSource(c.fio, path)
	schema, err := p.InferSchema(ctx, source)
	if err != nil {
		return nil, fmt.Errorf("unable to read schema of table %s: %w", name, err)
	}
	return file.CreateDataFrame(c.fio, []string{path}, p, schema), nil
}

// TablePath returns the directory holding the persistent table with the given name
func (c *Catalog) TablePath(name string) string {
	return fileio.Join(c.warehouse, normalizeName(name))
}

// TableExists returns true iff a persistent table with the given name exists in the warehouse
func (c *Catalog) TableExists(ctx context.Context, name string) (bool, error) {
	if len(c.warehouse) == 0 || validateName(name) != nil {
		return false, nil
	}
	return c.fio.IsDir(ctx, c.TablePath(name))
}

// ListTables lists temporary views and warehouse tables, sorted by name. A
// warehouse table shadowed by a temporary view is listed once, as the view.
func (c *Catalog) ListTables(ctx context.Context) ([]Table, error) {
	seen := make(map[string]bool)
	tables := make([]Table, 0)
	c.lock.RLock()
	for key, v := range c.views {
		seen[key] = true
		tables = append(tables, Table{Name: v.name, IsTemporary: true})
	}
	c.lock.RUnlock()

	persistent, err := c.warehouseTables(ctx)
	if err != nil {
		return nil, err
	}
	for _, name := range persistent {
		if !seen[name] {
			seen[name] = true
			tables = append(tables, Table{Name: name})
		}
	}
	sort.Slice(tables, func(i, j int) bool {
		return normalizeName(tables[i].Name) < normalizeName(tables[j].Name)
	})
	return tables, nil
}

// warehouseTables lists the names of the directories immediately beneath the warehouse
func (c *Catalog) warehouseTables(ctx context.Context) ([]string, error) {
	if len(c.warehouse) == 0 {
		return nil, nil
	}
	isDir, err := c.fio.IsDir(ctx, c.warehouse)
	if err != nil || !isDir {
		return nil, err
	}
	files, err := c.fio.ListFiles(ctx, c.warehouse)
	if err != nil {
		return nil, err
	}
	prefix := strings.TrimRight(strings.TrimPrefix(c.warehouse, "file://"), "/\\")
	names := make([]string, 0)
	seen := make(map[string]bool)
	for _, f := range files {
		rel := strings.TrimLeft(strings.TrimPrefix(strings.TrimPrefix(f, "file://"), prefix), "/\\")
		parts := strings.FieldsFunc(rel, func(r rune) bool { return r == '/' || r == '\\' })
		// tables are directories, so ignore loose files
		if len(parts) < 2 || validateName(parts[0]) != nil {
			continue
		}
		if !seen[parts[0]] {
			seen[parts[0]] = true
			names = append(names, parts[0])
		}
	}
	return names, nil
}
