package manifest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"sift/internal/types"
)

const sampleManifest = `
package = "orders"

[variables]
orders = "[]Order"
limit = { type = "int", description = "page size", deprecated = true }

[types.Order]
description = "one placed order"
fields = [
    { name = "ID", type = "string" },
    { name = "Total", type = "float", description = "gross total" },
    { type = "Audit", embedded = true },
]

[types.Order.methods.Paid]
signature = "func() bool"

[types.Audit]
fields = [
    { name = "CreatedAt", type = "Time" },
]

[types.Money]
underlying = "float"
`

func TestDecodeManifest(t *testing.T) {
	scope, err := Decode(sampleManifest)
	if err != nil {
		t.Fatal(err)
	}

	orders, ok := scope.Variable("orders")
	if !ok {
		t.Fatal("orders variable missing")
	}
	if got := types.Details(orders.Type); got != "[]Order" {
		t.Errorf("orders: got %s", got)
	}

	limit, ok := scope.Variable("limit")
	if !ok {
		t.Fatal("limit variable missing")
	}
	if limit.Description != "page size" || !limit.Deprecated {
		t.Error("table-form variable metadata lost")
	}

	order, ok := scope.TypeDef("Order")
	if !ok {
		t.Fatal("Order type missing")
	}
	if order.Package != "orders" || order.Description != "one placed order" {
		t.Error("type metadata lost")
	}
	if order.Type.Kind != types.KindStruct || len(order.Type.Fields) != 3 {
		t.Fatalf("Order underlying: %s", types.Details(order.Type))
	}
	// The embedded field without a name takes the type's name.
	embedded := order.Type.Fields[2]
	if !embedded.Embedded || embedded.Name != "Audit" {
		t.Errorf("embedded field: name %q embedded %v", embedded.Name, embedded.Embedded)
	}

	paid, ok := order.Methods["Paid"]
	if !ok {
		t.Fatal("Paid method missing")
	}
	if got := types.Details(paid.Fn); got != "func() bool" {
		t.Errorf("Paid signature: %s", got)
	}
	if paid.Receiver == nil || paid.Receiver.Name != "Order" {
		t.Error("method receiver must be the defined type")
	}

	money, ok := scope.TypeDef("Money")
	if !ok {
		t.Fatal("Money type missing")
	}
	if money.Type.Kind != types.KindFloat {
		t.Errorf("Money underlying: %s", types.Details(money.Type))
	}
}

func TestDecodeShortFormVariable(t *testing.T) {
	scope, err := Decode("[variables]\nname = \"string\"")
	if err != nil {
		t.Fatal(err)
	}
	v, ok := scope.Variable("name")
	if !ok || types.Details(v.Type) != "string" {
		t.Error("short-form variable must decode")
	}
}

func TestDecodeRejectsUnknownKeys(t *testing.T) {
	_, err := Decode("[variables]\nx = \"int\"\n\n[extras]\ny = 1")
	if err == nil || !strings.Contains(err.Error(), "unknown key") {
		t.Errorf("got %v, want an unknown-key error", err)
	}
}

func TestDecodeBadTypeRef(t *testing.T) {
	_, err := Decode("[variables]\nx = \"map[\"")
	if err == nil || !strings.Contains(err.Error(), "variable x") {
		t.Errorf("got %v, want a variable-scoped parse error", err)
	}

	_, err = Decode("[types.T]\nunderlying = \"[]\"")
	if err == nil {
		t.Error("bad underlying must fail")
	}
}

func TestDecodeNonFuncMethodSignature(t *testing.T) {
	src := "[types.T.methods.M]\nsignature = \"int\""
	_, err := Decode(src)
	if err == nil || !strings.Contains(err.Error(), "not a func") {
		t.Errorf("got %v, want a not-a-func error", err)
	}
}

func TestDecodeEmptyTypeIsEmptyStruct(t *testing.T) {
	scope, err := Decode("[types.Marker]\ndescription = \"tag\"")
	if err != nil {
		t.Fatal(err)
	}
	td, ok := scope.TypeDef("Marker")
	if !ok {
		t.Fatal("Marker missing")
	}
	if td.Type.Kind != types.KindStruct || len(td.Type.Fields) != 0 {
		t.Errorf("got %s, want an empty struct", types.Details(td.Type))
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, DefaultFile)
	if err := os.WriteFile(path, []byte(sampleManifest), 0o644); err != nil {
		t.Fatal(err)
	}
	scope, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := scope.Variable("orders"); !ok {
		t.Error("orders variable missing after Load")
	}

	if _, err := Load(filepath.Join(dir, "missing.toml")); err == nil {
		t.Error("missing file must fail")
	}
}
