package model

import (
	"sync"
	"testing"
)

func TestAggroList_AddHate(t *testing.T) {
	list := NewAggroList()

	list.AddHate(1001, 50)
	list.AddHate(1001, 30)

	info := list.Get(1001)
	if info == nil {
		t.Fatal("expected AggroInfo for objectID 1001")
	}
	if info.Hate() != 80 {
		t.Errorf("Hate() = %d, want 80", info.Hate())
	}
}

func TestAggroList_AddDamage(t *testing.T) {
	list := NewAggroList()

	list.AddDamage(2001, 100)
	list.AddDamage(2001, 50)

	info := list.Get(2001)
	if info == nil {
		t.Fatal("expected AggroInfo for objectID 2001")
	}
	if info.Damage() != 150 {
		t.Errorf("Damage() = %d, want 150", info.Damage())
	}
}

func TestAggroList_EnsureKeepsExisting(t *testing.T) {
	list := NewAggroList()

	list.AddHate(1001, 40)
	list.Ensure(1001)
	list.Ensure(1002)

	if got := list.Get(1001).Hate(); got != 40 {
		t.Errorf("Ensure overwrote hate: got %d, want 40", got)
	}
	if info := list.Get(1002); info == nil || info.Hate() != 0 {
		t.Error("Ensure should create a zero-hate entry")
	}
}

func TestAggroList_SetHateAndMax(t *testing.T) {
	list := NewAggroList()

	if got := list.MaxHate(); got != 0 {
		t.Errorf("MaxHate() on empty list = %d, want 0", got)
	}

	list.AddHate(1001, 70)
	list.AddHate(1002, 20)
	list.SetHate(1002, list.MaxHate()+1)

	if got := list.GetMostHated(); got != 1002 {
		t.Errorf("GetMostHated() = %d, want 1002", got)
	}
	if got := list.MaxHate(); got != 71 {
		t.Errorf("MaxHate() = %d, want 71", got)
	}
}

func TestAggroList_GetMostHated(t *testing.T) {
	list := NewAggroList()

	list.AddHate(1001, 50)
	list.AddHate(1002, 100)
	list.AddHate(1003, 30)

	mostHated := list.GetMostHated()
	if mostHated != 1002 {
		t.Errorf("GetMostHated() = %d, want 1002", mostHated)
	}
}

func TestAggroList_GetMostHated_TieLowestID(t *testing.T) {
	list := NewAggroList()

	list.AddHate(1003, 10)
	list.AddHate(1001, 10)
	list.AddHate(1002, 10)

	for range 20 {
		if got := list.GetMostHated(); got != 1001 {
			t.Fatalf("GetMostHated() with tie = %d, want 1001", got)
		}
	}
}

func TestAggroList_GetMostHated_Empty(t *testing.T) {
	list := NewAggroList()

	mostHated := list.GetMostHated()
	if mostHated != 0 {
		t.Errorf("GetMostHated() on empty list = %d, want 0", mostHated)
	}
}

func TestAggroList_Remove(t *testing.T) {
	list := NewAggroList()

	list.AddHate(1001, 50)
	list.AddHate(1002, 100)

	list.Remove(1002)

	mostHated := list.GetMostHated()
	if mostHated != 1001 {
		t.Errorf("after Remove(1002), GetMostHated() = %d, want 1001", mostHated)
	}

	if list.Get(1002) != nil {
		t.Error("Get(1002) should return nil after Remove")
	}
}

func TestAggroList_Clear(t *testing.T) {
	list := NewAggroList()

	list.AddHate(1001, 50)
	list.AddHate(1002, 100)

	list.Clear()

	if !list.IsEmpty() {
		t.Error("IsEmpty() should return true after Clear")
	}
	if len(list.Hates()) != 0 {
		t.Error("Hates() should be empty after Clear")
	}
}

func TestAggroList_Concurrent(t *testing.T) {
	list := NewAggroList()
	var wg sync.WaitGroup

	// 10 goroutines adding hate concurrently
	for i := range 10 {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for range 100 {
				list.AddHate(ObjectID(id+1), 1)
			}
		}(i)
	}

	wg.Wait()

	for i := range 10 {
		info := list.Get(ObjectID(i + 1))
		if info == nil {
			t.Errorf("missing entry for objectID %d", i+1)
			continue
		}
		if info.Hate() != 100 {
			t.Errorf("objectID %d: Hate() = %d, want 100", i+1, info.Hate())
		}
	}
}

func TestCalcHateValue(t *testing.T) {
	tests := []struct {
		damage   int32
		npcLevel int32
		want     int64
	}{
		{100, 10, 588},
		{50, 1, 625},
		{200, 80, 229},
		{0, 10, 0},
		{100, 0, 1250}, // level 0 → clamped to 1
	}

	for _, tt := range tests {
		got := CalcHateValue(tt.damage, tt.npcLevel)
		if got != tt.want {
			t.Errorf("CalcHateValue(%d, %d) = %d, want %d",
				tt.damage, tt.npcLevel, got, tt.want)
		}
	}
}
