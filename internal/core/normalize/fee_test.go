package normalize

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haulwise/backoffice/internal/core/domain"
)

func decode(t *testing.T, s string) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal([]byte(s), &m))
	return m
}

func TestFee_CanonicalRecord(t *testing.T) {
	in, issues := Fee(decode(t, `{"type":"toll","amount":20000,"memo":"highway","charge_side":true,"dispatch_side":true}`))
	require.Empty(t, issues)
	assert.Equal(t, domain.FeeToll, in.Type)
	assert.Equal(t, int64(20000), in.Amount)
	assert.Equal(t, "highway", in.Memo)
	assert.Equal(t, domain.FeeTarget{ChargeSide: true, DispatchSide: true}, in.Target)
}

func TestFee_LegacyNames(t *testing.T) {
	in, issues := Fee(decode(t, `{"feeType":"Round-Trip","price":"-50,000","note":" back haul ","isDispatch":"Y"}`))
	require.Empty(t, issues)
	assert.Equal(t, domain.FeeRoundTrip, in.Type)
	assert.Equal(t, int64(-50000), in.Amount)
	assert.Equal(t, "back haul", in.Memo)
	assert.Equal(t, domain.FeeTarget{DispatchSide: true}, in.Target)
}

func TestFee_NestedTarget(t *testing.T) {
	in, issues := Fee(decode(t, `{"kind":"cod","value":15000,"target":{"charge":1,"dispatch":0}}`))
	require.Empty(t, issues)
	assert.Equal(t, domain.FeeCODAtSite, in.Type)
	assert.Equal(t, domain.FeeTarget{ChargeSide: true}, in.Target)
}

func TestFee_ReportsProblemsInsteadOfDefaulting(t *testing.T) {
	_, issues := Fee(decode(t, `{"fee_type":"fuel","amount":"1-0","colour":"red"}`))

	fields := map[string]string{}
	for _, is := range issues {
		fields[is.Field] = is.Message
	}
	assert.Contains(t, fields, "colour")
	assert.Contains(t, fields, "fee_type")
	assert.Contains(t, fields, "amount")
	assert.Contains(t, fields, "target")
}

func TestFee_MissingRequired(t *testing.T) {
	_, issues := Fee(map[string]any{"charge_side": true})
	require.Len(t, issues, 2)
	assert.Equal(t, FieldType, issues[0].Field)
	assert.Equal(t, FieldAmount, issues[1].Field)
}

func TestFee_ConflictingAliases(t *testing.T) {
	_, issues := Fee(decode(t, `{"type":"toll","amount":100,"price":200,"charge_side":true}`))
	require.Len(t, issues, 1)
	assert.Equal(t, "price", issues[0].Field)

	_, issues = Fee(decode(t, `{"type":"toll","amount":100,"price":100,"charge_side":true}`))
	assert.Empty(t, issues)
}

func TestFee_FractionalAmountRejected(t *testing.T) {
	_, issues := Fee(decode(t, `{"type":"toll","amount":10.5,"charge_side":true}`))
	require.Len(t, issues, 1)
	assert.Equal(t, "amount", issues[0].Field)
}
