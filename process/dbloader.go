package process

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/kanat1390/network-actualizer/models"
)

type query struct {
	sql     string
	columns []string
}

var (
	lcellsQuery = query{
		sql:     "SELECT CELL_ID, PHY_CELL_ID, PRACH_RSI_LIST, FBAND FROM lcells",
		columns: []string{models.CellName, models.PCI, models.RSI, models.DownlinkBandwidth},
	}
	ltransmittersQuery = query{
		sql:     "SELECT TX_ID, eNodeB_ID, TAC FROM ltransmitters",
		columns: []string{models.CellName, models.ENodeBID, models.TAC},
	}
	ucellsQuery = query{
		sql:     "SELECT CELL_ID, SCRAMBLING_CODE, CELL_IDENTITY FROM ucells",
		columns: []string{models.CellName, models.PSC, models.CellID},
	}
	utransmittersQuery = query{
		sql:     "SELECT TX_ID, LAC, RAC FROM utransmitters",
		columns: []string{models.CellName, models.LAC, models.RAC},
	}
	gtransmittersQuery = query{
		sql:     "SELECT TX_ID, CONTROL_CHANNEL, BSIC, LAC FROM gtransmitters",
		columns: []string{models.CellName, models.BCCH, models.BSIC, models.LAC},
	}
)

// DBLoader builds the database side of the comparison.
type DBLoader struct {
	db      Querier
	schemas models.Schemas
	logger  *slog.Logger
}

func NewDBLoader(db Querier, schemas models.Schemas, logger *slog.Logger) *DBLoader {
	if logger == nil {
		logger = slog.Default()
	}
	return &DBLoader{db: db, schemas: schemas, logger: logger}
}

// Load queries and prepares the LTE, UMTS and GSM tables. Any SQL failure is
// returned as is; no partial dataset is produced.
func (l *DBLoader) Load(ctx context.Context) (Dataset, error) {
	loaders := map[models.Technology]func(context.Context) (*Table, error){
		models.LTE:  l.lte,
		models.UMTS: l.umts,
		models.GSM:  l.gsm,
	}

	data := make(Dataset, len(models.Technologies))
	for _, tech := range models.Technologies {
		table, err := loaders[tech](ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to load %s from database: %w", tech, err)
		}
		l.logger.Info("Loaded database table", slog.String("technology", string(tech)), slog.Int("rows", table.Len()))
		data[tech] = table
	}
	return data, nil
}

func (l *DBLoader) lte(ctx context.Context) (*Table, error) {
	schema, err := l.schema(models.LTE)
	if err != nil {
		return nil, err
	}
	lcells, err := l.fetch(ctx, lcellsQuery)
	if err != nil {
		return nil, err
	}
	ltransmitters, err := l.fetch(ctx, ltransmittersQuery)
	if err != nil {
		return nil, err
	}

	addSiteName(lcells)
	addSiteName(ltransmitters)

	// eNodeB ID and TAC live at base station level: one row per site is enough.
	ltransmitters = ltransmitters.DropDuplicates(models.SiteName)
	ltransmitters.DropColumn(models.CellName)

	lcells.Apply(models.DownlinkBandwidth, BandwidthCode)

	joined := Join(lcells, ltransmitters, []string{models.SiteName}, InnerJoin)
	return Pipeline(joined, Finalize(schema)...)
}

func (l *DBLoader) umts(ctx context.Context) (*Table, error) {
	schema, err := l.schema(models.UMTS)
	if err != nil {
		return nil, err
	}
	ucells, err := l.fetch(ctx, ucellsQuery)
	if err != nil {
		return nil, err
	}
	utransmitters, err := l.fetch(ctx, utransmittersQuery)
	if err != nil {
		return nil, err
	}

	addSiteName(ucells)
	addSiteName(utransmitters)

	joined := Join(ucells, utransmitters, []string{models.SiteName, models.CellName}, OuterJoin)
	addShortCellName(joined)
	return Pipeline(joined, Finalize(schema)...)
}

func (l *DBLoader) gsm(ctx context.Context) (*Table, error) {
	schema, err := l.schema(models.GSM)
	if err != nil {
		return nil, err
	}
	gtransmitters, err := l.fetch(ctx, gtransmittersQuery)
	if err != nil {
		return nil, err
	}

	addSiteName(gtransmitters)
	splitBSIC(gtransmitters)
	return Pipeline(gtransmitters, Finalize(schema)...)
}

func (l *DBLoader) fetch(ctx context.Context, q query) (*Table, error) {
	t, err := FetchTable(ctx, l.db, q.sql, q.columns)
	if err != nil {
		return nil, err
	}
	l.logger.Debug("Fetched rows", slog.String("query", q.sql), slog.Int("rows", t.Len()))
	return t, nil
}

func (l *DBLoader) schema(tech models.Technology) (models.Schema, error) {
	s, ok := l.schemas[tech]
	if !ok {
		return models.Schema{}, fmt.Errorf("%w: %s", ErrNoSchema, tech)
	}
	return s, nil
}

func addSiteName(t *Table) {
	t.AddColumn(models.SiteName, func(r Row) any { return SiteName(r[models.CellName]) })
}

func addShortCellName(t *Table) {
	t.AddColumn(models.CellNameShort, func(r Row) any { return ShortCellName(r[models.CellName]) })
}

func splitBSIC(t *Table) {
	t.AddColumn(models.BCC, func(r Row) any {
		bcc, _ := ParseBSIC(r[models.BSIC])
		return bcc
	})
	t.AddColumn(models.NCC, func(r Row) any {
		_, ncc := ParseBSIC(r[models.BSIC])
		return ncc
	})
}
