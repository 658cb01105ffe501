package handlers

import (
	"encoding/json"
	"testing"
)

func TestUpdateItemRequestParentIDAbsent(t *testing.T) {
	var req UpdateItemRequest
	if err := json.Unmarshal([]byte(`{"name":"Mug"}`), &req); err != nil {
		t.Fatal(err)
	}
	if req.ParentIDSet {
		t.Error("parentId absent from payload but flagged as set")
	}
	if req.Name == nil || *req.Name != "Mug" {
		t.Errorf("Name: %v", req.Name)
	}
}

func TestUpdateItemRequestParentIDNull(t *testing.T) {
	var req UpdateItemRequest
	if err := json.Unmarshal([]byte(`{"parentId":null}`), &req); err != nil {
		t.Fatal(err)
	}
	if !req.ParentIDSet {
		t.Error("Explicit null should flag parentId as set")
	}
	if req.ParentID != nil {
		t.Errorf("Explicit null should leave ParentID nil, got %q", *req.ParentID)
	}
}

func TestUpdateItemRequestParentIDValue(t *testing.T) {
	var req UpdateItemRequest
	if err := json.Unmarshal([]byte(`{"parentId":"item-7","quantity":3}`), &req); err != nil {
		t.Fatal(err)
	}
	if !req.ParentIDSet || req.ParentID == nil || *req.ParentID != "item-7" {
		t.Errorf("ParentID: set=%v value=%v", req.ParentIDSet, req.ParentID)
	}
	if req.Quantity == nil || *req.Quantity != 3 {
		t.Errorf("Quantity: %v", req.Quantity)
	}
}
