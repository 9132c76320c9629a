package refmap

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"travecoqs/internal/config"
	"travecoqs/pkg/contracts/domain"
)

func testDivisions() []domain.DivisionEntry {
	return []domain.DivisionEntry{
		{CustomerID: "30145", Division: "Brennstoffe"},
		{CustomerID: "30290", Division: "Lebensmittel"},
	}
}

func testCenters() []domain.DispatchCenterEntry {
	return []domain.DispatchCenterEntry{
		{OwnerID: "3310", CenterName: "Oberbuchsiten"},
		{OwnerID: "3410", CenterName: "Winterthur"},
	}
}

func newTestMapper(t *testing.T, divisions []domain.DivisionEntry, centers []domain.DispatchCenterEntry) *Mapper {
	t.Helper()
	mapper, err := NewMapper(nil, config.Default().Mapping, divisions, centers)
	require.NoError(t, err)
	return mapper
}

func TestMapper_Apply_TypeMismatchRegression(t *testing.T) {
	// Division keys as floats (workbook one), order keys as plain text
	// (workbook two). The join must still succeed after coercion.
	divisions := []domain.DivisionEntry{
		{CustomerID: "30145.0", Division: "Brennstoffe"},
	}
	mapper := newTestMapper(t, divisions, testCenters())

	result := mapper.Apply(context.Background(), []domain.Order{
		{RecordID: "1", BillingCustomerID: "30145", OwnerID: "3310"},
	})

	require.Len(t, result.Orders, 1)
	assert.Equal(t, "Brennstoffe", result.Orders[0].DivisionName)
	assert.Equal(t, 1, result.Division.Matched)
	assert.Zero(t, result.Division.Generic)
}

func TestMapper_Apply_SentinelSplit(t *testing.T) {
	mapper := newTestMapper(t, testDivisions(), testCenters())

	result := mapper.Apply(context.Background(), []domain.Order{
		{RecordID: "1", BillingCustomerID: "99999", BillingCustomerName: "Traveco Transporte AG", OwnerID: "3310"},
		{RecordID: "2", BillingCustomerID: "99999", BillingCustomerName: "Unbekannte GmbH", OwnerID: "3310"},
		{RecordID: "3", BillingCustomerID: "-", BillingCustomerName: "TRAVECO AG", OwnerID: "3310"},
	})

	assert.Equal(t, "Traveco intern", result.Orders[0].DivisionName)
	assert.Equal(t, "Ohne Sparte", result.Orders[1].DivisionName)
	assert.Equal(t, "Traveco intern", result.Orders[2].DivisionName) // marker match is case-insensitive
	assert.Equal(t, 2, result.Division.Internal)
	assert.Equal(t, 1, result.Division.Generic)
}

func TestMapper_Apply_Totality(t *testing.T) {
	mapper := newTestMapper(t, testDivisions(), testCenters())

	orders := []domain.Order{
		{RecordID: "1", BillingCustomerID: "30145", OwnerID: "3310"},
		{RecordID: "2", BillingCustomerID: "", OwnerID: ""},
		{RecordID: "3", BillingCustomerID: "garbage", OwnerID: "garbage"},
	}
	result := mapper.Apply(context.Background(), orders)

	for _, order := range result.Orders {
		assert.NotEmpty(t, order.DivisionName, "record %s has no division", order.RecordID)
		assert.NotEmpty(t, order.DispatchCenterName, "record %s has no center", order.RecordID)
	}
	assert.Equal(t, len(orders),
		result.Division.Matched+result.Division.Generic+result.Division.Internal)
	assert.Equal(t, len(orders), result.Center.Matched+result.Center.Unmatched)
}

func TestMapper_Apply_RelocationCollapse(t *testing.T) {
	mapper := newTestMapper(t, testDivisions(), testCenters())

	// 3302 is the retired key of the relocated center; 3310 its successor.
	result := mapper.Apply(context.Background(), []domain.Order{
		{RecordID: "1", BillingCustomerID: "30145", OwnerID: "3302"},
		{RecordID: "2", BillingCustomerID: "30145", OwnerID: "3310"},
	})

	assert.Equal(t, result.Orders[0].DispatchCenterName, result.Orders[1].DispatchCenterName)
	assert.Equal(t, "Oberbuchsiten", result.Orders[0].DispatchCenterName)
	assert.Equal(t, 1, result.Center.Collapsed)
	assert.Equal(t, 2, result.Center.Matched)
	assert.Equal(t, 1, result.Center.DistinctCenters)
}

func TestNewMapper_DuplicateKeysFirstWins(t *testing.T) {
	divisions := []domain.DivisionEntry{
		{CustomerID: "30145", Division: "Brennstoffe"},
		{CustomerID: "30145", Division: "Lebensmittel"},
	}
	mapper := newTestMapper(t, divisions, testCenters())

	result := mapper.Apply(context.Background(), []domain.Order{
		{RecordID: "1", BillingCustomerID: "30145", OwnerID: "3310"},
	})

	assert.Equal(t, "Brennstoffe", result.Orders[0].DivisionName)
	require.Len(t, result.Duplicates, 1)
	assert.Equal(t, TableDivisions, result.Duplicates[0].Table)
	assert.Equal(t, int64(30145), result.Duplicates[0].Key)
	assert.Equal(t, "Lebensmittel", result.Duplicates[0].Discarded)
}

func TestNewMapper_UncoercibleReferenceKeyReported(t *testing.T) {
	divisions := []domain.DivisionEntry{
		{CustomerID: "k.A.", Division: "Brennstoffe"},
	}
	mapper := newTestMapper(t, divisions, testCenters())

	assert.Len(t, mapper.skipped, 1)
	assert.Equal(t, TableDivisions, mapper.skipped[0].Table)
}

func TestNewMapper_EquivalenceMissingCanonicalIsFatal(t *testing.T) {
	cfg := config.Default().Mapping
	cfg.CenterEquivalences = map[int64]int64{3302: 9999}

	_, err := NewMapper(nil, cfg, testDivisions(), testCenters())
	require.Error(t, err)

	var cfgErr *config.ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Contains(t, cfgErr.Reason, "9999")
}
