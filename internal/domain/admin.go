package domain

// AdminStats is the counts payload for the admin dashboard.
// Amounts are deliberately absent: trips have different base currencies,
// so a cross-trip sum would be meaningless.
type AdminStats struct {
	Trips       int64
	OpenTrips   int64
	Expenses    int64
	Unconverted int64
	Members     int64
	// CachedBases is the number of base currencies with a rate snapshot.
	CachedBases int64
}
