package csv

import (
	"fmt"

	"github.com/vsinha/plantplan/pkg/domain/entities"
	"github.com/vsinha/plantplan/pkg/infrastructure/repositories/memory"
)

// DatasetPaths names the input files of a planning run
type DatasetPaths struct {
	Orders     string
	Lines      string
	Inventory  string
	BOM        string
	Suppliers  string
	Alternates string
	Catalog    string
}

// Dataset is a complete, parsed input snapshot
type Dataset struct {
	Demands    []*entities.DemandRecord
	Lines      []*entities.Line
	Policies   []*entities.InventoryPolicy
	BOM        []*entities.BOMEntry
	Receipts   []*entities.SupplierReceipt
	Alternates []*entities.MaterialAlternate
	Catalog    []*entities.SKUProfile
}

// LoadDataset loads every input file. The first malformed file aborts the load.
func (l *Loader) LoadDataset(paths DatasetPaths) (*Dataset, error) {
	var (
		ds  Dataset
		err error
	)
	if ds.Demands, err = l.LoadDemands(paths.Orders); err != nil {
		return nil, err
	}
	if ds.Lines, err = l.LoadLines(paths.Lines); err != nil {
		return nil, err
	}
	if ds.Policies, err = l.LoadInventory(paths.Inventory); err != nil {
		return nil, err
	}
	if ds.BOM, err = l.LoadBOM(paths.BOM); err != nil {
		return nil, err
	}
	if ds.Receipts, err = l.LoadSuppliers(paths.Suppliers); err != nil {
		return nil, err
	}
	if ds.Alternates, err = l.LoadAlternates(paths.Alternates); err != nil {
		return nil, err
	}
	if ds.Catalog, err = l.LoadCatalog(paths.Catalog); err != nil {
		return nil, err
	}
	return &ds, nil
}

// Repositories holds the in-memory repositories built from a dataset
type Repositories struct {
	Demands   *memory.DemandRepository
	Lines     *memory.LineRepository
	Inventory *memory.InventoryRepository
	BOM       *memory.BOMRepository
	Suppliers *memory.SupplierRepository
}

// Repositories loads the dataset into in-memory repositories.
// Duplicate line ids and inventory keys are malformed input.
func (ds *Dataset) Repositories() (*Repositories, error) {
	repos := &Repositories{
		Demands:   memory.NewDemandRepository(),
		Lines:     memory.NewLineRepository(len(ds.Lines)),
		Inventory: memory.NewInventoryRepository(),
		BOM:       memory.NewBOMRepository(len(ds.BOM)),
		Suppliers: memory.NewSupplierRepository(),
	}
	if err := repos.Demands.LoadDemands(ds.Demands); err != nil {
		return nil, fmt.Errorf("%w: %v", entities.ErrMalformedInput, err)
	}
	if err := repos.Lines.LoadLines(ds.Lines); err != nil {
		return nil, fmt.Errorf("%w: %v", entities.ErrMalformedInput, err)
	}
	if err := repos.Inventory.LoadPolicies(ds.Policies); err != nil {
		return nil, fmt.Errorf("%w: %v", entities.ErrMalformedInput, err)
	}
	if err := repos.BOM.LoadBOMEntries(ds.BOM); err != nil {
		return nil, fmt.Errorf("%w: %v", entities.ErrMalformedInput, err)
	}
	if err := repos.Suppliers.LoadReceipts(ds.Receipts); err != nil {
		return nil, fmt.Errorf("%w: %v", entities.ErrMalformedInput, err)
	}
	if err := repos.Suppliers.LoadAlternates(ds.Alternates); err != nil {
		return nil, fmt.Errorf("%w: %v", entities.ErrMalformedInput, err)
	}
	return repos, nil
}
