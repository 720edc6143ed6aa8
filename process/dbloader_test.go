package process

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kanat1390/network-actualizer/config"
	"github.com/kanat1390/network-actualizer/models"
)

const planningSchema = `
CREATE TABLE lcells (CELL_ID TEXT, PHY_CELL_ID INTEGER, PRACH_RSI_LIST TEXT, FBAND TEXT);
CREATE TABLE ltransmitters (TX_ID TEXT, eNodeB_ID INTEGER, TAC INTEGER);
CREATE TABLE ucells (CELL_ID TEXT, SCRAMBLING_CODE INTEGER, CELL_IDENTITY INTEGER);
CREATE TABLE utransmitters (TX_ID TEXT, LAC INTEGER, RAC INTEGER);
CREATE TABLE gtransmitters (TX_ID TEXT, CONTROL_CHANNEL INTEGER, BSIC TEXT, LAC INTEGER);
`

const planningData = `
INSERT INTO lcells VALUES
	('LTE_AB123_1', 17, '0-9', '1860 FDD - 20 MHz Altel (E-UTRA Band 3)'),
	('LTE_AB123_2', 18, '10', '800 FDD - 10 MHz'),
	('LTE_nosite_1', 1, '1', '800 FDD - 10 MHz'),
	('LTE_CD456_1', 5, '2', '450 FDD - 5 MHz');
INSERT INTO ltransmitters VALUES
	('LTE_AB123_1', 1001, 50),
	('LTE_AB123_2', 1999, 99),
	('LTE_EF789_1', 2002, 60);
INSERT INTO ucells VALUES
	('UMTS_GH123_A1', 101, 5001),
	('UMTS_GH123_A2', 102, 5002);
INSERT INTO utransmitters VALUES
	('UMTS_GH123_A1', 300, 7),
	('UMTS_IJ456_B1', 301, 8);
INSERT INTO gtransmitters VALUES
	('GSM_KL123_1', 60, '61', 400),
	('GSM_KL123_2', 61, '7', 400),
	('GSM_KL123_3', 62, NULL, 400);
`

// newPlanningDB creates a SQLite planning database in a temp dir and returns
// the config pointing at it.
func newPlanningDB(t *testing.T, statements ...string) (config.Config, *sqlx.DB) {
	t.Helper()

	cfg := config.Default()
	cfg.SQLDriver = "sqlite"
	cfg.DBName = filepath.Join(t.TempDir(), "planning.db")

	db, err := Connect(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	for _, batch := range statements {
		for _, stmt := range strings.Split(batch, ";") {
			if strings.TrimSpace(stmt) == "" {
				continue
			}
			_, err := db.Exec(stmt)
			require.NoError(t, err)
		}
	}
	return cfg, db
}

func TestDriverAndSource(t *testing.T) {
	cfg := config.Default()
	cfg.SQLDriver = "SQLite"
	cfg.DBName = "/data/planning.db"

	driver, source := DriverAndSource(cfg)
	assert.Equal(t, "sqlite", driver)
	assert.Equal(t, "/data/planning.db", source)

	cfg.SQLDriver = "SQL SERVER"
	cfg.DBServerIP = "10.0.0.1"
	cfg.DBName = "ATOLL_MRAT"
	cfg.DBUserName = "planner"
	cfg.DBPassword = "secret"

	driver, source = DriverAndSource(cfg)
	assert.Equal(t, "adodb", driver)
	assert.Contains(t, source, "Provider=MSDASQL;")
	assert.Contains(t, source, "Driver={SQL SERVER};")
	assert.Contains(t, source, "Server=10.0.0.1;")
	assert.Contains(t, source, "Database=ATOLL_MRAT;")
	assert.Contains(t, source, "Uid=planner;")
	assert.Contains(t, source, "Pwd=secret;")
}

func TestFetchTable(t *testing.T) {
	_, db := newPlanningDB(t, planningSchema, planningData)

	table, err := FetchTable(context.Background(), db, gtransmittersQuery.sql, gtransmittersQuery.columns)
	require.NoError(t, err)

	assert.Equal(t, []string{"Cell Name", "BCCH", "BSIC", "LAC"}, table.Columns)
	require.Len(t, table.Rows, 3)
	assert.Equal(t, Row{"Cell Name": "GSM_KL123_1", "BCCH": "60", "BSIC": "61", "LAC": "400"}, table.Rows[0])
	assert.Nil(t, table.Rows[2]["BSIC"])
}

func TestFetchTableColumnCountMismatch(t *testing.T) {
	_, db := newPlanningDB(t, planningSchema)

	_, err := FetchTable(context.Background(), db, "SELECT TX_ID FROM gtransmitters", []string{"a", "b"})
	assert.Error(t, err)
}

func TestDBLoaderLTE(t *testing.T) {
	_, db := newPlanningDB(t, planningSchema, planningData)

	data, err := NewDBLoader(db, models.DefaultSchemas(), nil).Load(context.Background())
	require.NoError(t, err)

	lte := data[models.LTE]
	assert.Equal(t, models.DefaultSchemas()[models.LTE].Columns, lte.Columns)
	require.Len(t, lte.Rows, 2)

	// Transmitter data is taken from the first transmitter of the site.
	assert.Equal(t, Row{
		"Site Name":          "AB123",
		"Cell Name":          "LTE_AB123_1",
		"eNodeB ID":          1001.0,
		"PCI":                17.0,
		"RSI":                nil,
		"TAC":                50.0,
		"Downlink bandwidth": "CELL_BW_N100",
	}, lte.Rows[0])
	assert.Equal(t, Row{
		"Site Name":          "AB123",
		"Cell Name":          "LTE_AB123_2",
		"eNodeB ID":          1001.0,
		"PCI":                18.0,
		"RSI":                10.0,
		"TAC":                50.0,
		"Downlink bandwidth": "CELL_BW_N50",
	}, lte.Rows[1])
}

func TestDBLoaderUMTS(t *testing.T) {
	_, db := newPlanningDB(t, planningSchema, planningData)

	data, err := NewDBLoader(db, models.DefaultSchemas(), nil).Load(context.Background())
	require.NoError(t, err)

	umts := data[models.UMTS]
	assert.Equal(t, models.DefaultSchemas()[models.UMTS].Columns, umts.Columns)
	require.Len(t, umts.Rows, 3)

	assert.Equal(t, Row{
		"Site Name": "GH123", "Cell Name Short": "UMTS_GH123_", "Cell Name": "UMTS_GH123_A1",
		"Cell ID": 5001.0, "LAC": 300.0, "RAC": 7.0, "PSC": 101.0,
	}, umts.Rows[0])
	assert.Equal(t, Row{
		"Site Name": "GH123", "Cell Name Short": "UMTS_GH123_", "Cell Name": "UMTS_GH123_A2",
		"Cell ID": 5002.0, "LAC": nil, "RAC": nil, "PSC": 102.0,
	}, umts.Rows[1])
	assert.Equal(t, Row{
		"Site Name": "IJ456", "Cell Name Short": "UMTS_IJ456_", "Cell Name": "UMTS_IJ456_B1",
		"Cell ID": nil, "LAC": 301.0, "RAC": 8.0, "PSC": nil,
	}, umts.Rows[2])
}

func TestDBLoaderGSM(t *testing.T) {
	_, db := newPlanningDB(t, planningSchema, planningData)

	data, err := NewDBLoader(db, models.DefaultSchemas(), nil).Load(context.Background())
	require.NoError(t, err)

	gsm := data[models.GSM]
	assert.Equal(t, models.DefaultSchemas()[models.GSM].Columns, gsm.Columns)
	require.Len(t, gsm.Rows, 3)

	assert.Equal(t, Row{"Site Name": "KL123", "Cell Name": "GSM_KL123_1", "LAC": 400.0, "BCCH": 60.0, "NCC": 1.0, "BCC": 6.0}, gsm.Rows[0])
	assert.Equal(t, Row{"Site Name": "KL123", "Cell Name": "GSM_KL123_2", "LAC": 400.0, "BCCH": 61.0, "NCC": 7.0, "BCC": 0.0}, gsm.Rows[1])
	assert.Equal(t, Row{"Site Name": "KL123", "Cell Name": "GSM_KL123_3", "LAC": 400.0, "BCCH": 62.0, "NCC": nil, "BCC": nil}, gsm.Rows[2])
}

func TestDBLoaderSQLFailure(t *testing.T) {
	_, db := newPlanningDB(t, "CREATE TABLE lcells (CELL_ID TEXT, PHY_CELL_ID INTEGER, PRACH_RSI_LIST TEXT, FBAND TEXT);")

	_, err := NewDBLoader(db, models.DefaultSchemas(), nil).Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ltransmitters")
}

func TestDBLoaderNumericColumnsNeverRaw(t *testing.T) {
	_, db := newPlanningDB(t, planningSchema, planningData,
		"INSERT INTO gtransmitters VALUES ('GSM_MN123_1', 'n/a', 'x', 'LAC?')")

	data, err := NewDBLoader(db, models.DefaultSchemas(), nil).Load(context.Background())
	require.NoError(t, err)

	for tech, table := range data {
		for _, col := range models.DefaultSchemas()[tech].Numeric {
			for _, v := range table.Values(col) {
				if v != nil {
					assert.IsType(t, float64(0), v, "%s %s", tech, col)
				}
			}
		}
	}
}
