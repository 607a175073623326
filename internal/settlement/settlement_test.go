package settlement

import (
	"testing"
	"time"

	"github.com/colis-next/internal/constants"
)

func ptr(v int64) *int64 { return &v }

func TestTotalDue(t *testing.T) {
	cases := []struct {
		name      string
		isPrepaid bool
		price     int64
		collect   *int64
		want      int64
	}{
		{"prepaid_with_collect", true, 7000, ptr(15000), 7000},
		{"prepaid_no_collect", true, 7000, nil, 7000},
		{"postpaid_with_collect", false, 7000, ptr(15000), 22000},
		{"postpaid_no_collect", false, 7000, nil, 7000},
		{"postpaid_zero_collect", false, 7000, ptr(0), 7000},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := TotalDue(tc.isPrepaid, tc.price, tc.collect); got != tc.want {
				t.Fatalf("TotalDue = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestCourierDuePrepaidIgnoresCollect(t *testing.T) {
	// 货款已预付：骑手门口只收运费，残留的 collectAmount 不计入上缴额。
	if got := CourierDue(true, 7000, ptr(15000)); got != 7000 {
		t.Fatalf("CourierDue = %d, want 7000", got)
	}
	if got := CourierDue(true, 7000, nil); got != 7000 {
		t.Fatalf("CourierDue without collect = %d, want 7000", got)
	}
}

func TestClientAmountPaid(t *testing.T) {
	price := int64(3000)
	collect := ptr(int64(10000))
	cases := []struct {
		name       string
		isPrepaid  bool
		feePrepaid bool
		want       int64
	}{
		{"collect_fee_prepaid", false, true, 10000},
		{"collect_fee_deducted", false, false, 7000},
		{"no_collect_fee_prepaid", true, true, 0},
		{"no_collect_fee_debit", true, false, -3000},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ClientAmount(constants.DeliveryStatusPaid, tc.isPrepaid, tc.feePrepaid, price, collect)
			if got != tc.want {
				t.Fatalf("ClientAmount = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestClientAmountDelivered(t *testing.T) {
	price := int64(4000)
	collect := ptr(int64(20000))
	// 已送达未收款：只有运费垫付的情形产生负项，货款不计。
	if got := ClientAmount(constants.DeliveryStatusDelivered, true, false, price, collect); got != -4000 {
		t.Fatalf("delivered debit = %d, want -4000", got)
	}
	for _, tc := range []struct{ isPrepaid, feePrepaid bool }{
		{false, true}, {false, false}, {true, true},
	} {
		got := ClientAmount(constants.DeliveryStatusDelivered, tc.isPrepaid, tc.feePrepaid, price, collect)
		if got != 0 {
			t.Fatalf("delivered(%v,%v) = %d, want 0", tc.isPrepaid, tc.feePrepaid, got)
		}
	}
}

func TestClientAmountOtherStatuses(t *testing.T) {
	for _, status := range []string{
		constants.DeliveryStatusCreated,
		constants.DeliveryStatusPickedUp,
		constants.DeliveryStatusPostponed,
		constants.DeliveryStatusCanceled,
	} {
		if got := ClientAmount(status, true, false, 5000, ptr(9000)); got != 0 {
			t.Fatalf("status %s amount = %d, want 0", status, got)
		}
	}
}

func TestEligible(t *testing.T) {
	cutoff := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)
	cases := []struct {
		name    string
		status  string
		planned time.Time
		want    bool
	}{
		{"paid_before_cutoff", constants.DeliveryStatusPaid, cutoff.AddDate(0, 0, -3), true},
		{"delivered_on_cutoff", constants.DeliveryStatusDelivered, cutoff, true},
		{"delivered_cutoff_late_hour", constants.DeliveryStatusDelivered, cutoff.Add(18 * time.Hour), true},
		{"paid_after_cutoff", constants.DeliveryStatusPaid, cutoff.AddDate(0, 0, 1), false},
		{"created_before_cutoff", constants.DeliveryStatusCreated, cutoff.AddDate(0, 0, -1), false},
		{"canceled_before_cutoff", constants.DeliveryStatusCanceled, cutoff.AddDate(0, 0, -1), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Eligible(tc.status, tc.planned, cutoff); got != tc.want {
				t.Fatalf("Eligible = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestCutoff(t *testing.T) {
	today := time.Date(2026, 8, 31, 14, 45, 0, 0, time.UTC)
	if got := Cutoff(today, 1); !got.Equal(time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("Cutoff J+1 = %v", got)
	}
	if got := Cutoff(today, 0); !got.Equal(time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("Cutoff J+0 = %v", got)
	}
	if got := Cutoff(today, -2); !got.Equal(time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("negative cutoffDays should clamp to today, got %v", got)
	}
}

func TestEndToEndPeriExample(t *testing.T) {
	// peri 区 3kg 不加急：运费 7000；货款 15000 到付、运费到付。
	price := int64(7000)
	collect := ptr(int64(15000))
	if got := TotalDue(false, price, collect); got != 22000 {
		t.Fatalf("TotalDue = %d, want 22000", got)
	}
	if got := ClientAmount(constants.DeliveryStatusPaid, false, false, price, collect); got != 8000 {
		t.Fatalf("ClientAmount = %d, want 8000", got)
	}
	if got := CourierDue(false, price, collect); got != 22000 {
		t.Fatalf("CourierDue = %d, want 22000", got)
	}
}
