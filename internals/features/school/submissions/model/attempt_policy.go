package model

// AttemptPlan adalah keputusan penyimpanan submission berikutnya.
type AttemptPlan struct {
	// Upsert: timpa baris (student, test) yang sudah ada.
	Upsert bool
	// Number: attempt_number untuk baris yang ditulis.
	Number int
}

// PlanAttempt menerapkan aturan attempts_limit:
//   - limit == 1 → satu baris per (student, test), ditimpa tiap submit
//   - limit > 1  → baris baru selama used < limit
//   - limit == 0 → baris baru tanpa batas
//
// ok=false berarti jatah attempt sudah habis.
func PlanAttempt(limit int, used int64) (AttemptPlan, bool) {
	switch {
	case limit == 1:
		return AttemptPlan{Upsert: true, Number: 1}, true
	case limit > 1 && used >= int64(limit):
		return AttemptPlan{}, false
	default:
		return AttemptPlan{Number: int(used) + 1}, true
	}
}

// Exhausted: dipakai daftar test siswa untuk menyembunyikan test yang habis jatahnya.
func Exhausted(limit int, used int64) bool {
	return limit > 1 && used >= int64(limit)
}
