package room

// SimulatedAssets stands in for an asset server: every requested asset
// becomes loaded a fixed number of polls after it was requested.
type SimulatedAssets struct {
	Latency int

	requested map[AssetID]int
	now       int
}

// NewSimulatedAssets creates an asset server with the given latency in ticks.
func NewSimulatedAssets(latency int) *SimulatedAssets {
	return &SimulatedAssets{Latency: latency, requested: make(map[AssetID]int)}
}

// Load requests an asset. Repeated requests keep the first request time.
func (a *SimulatedAssets) Load(id AssetID) {
	if _, ok := a.requested[id]; !ok {
		a.requested[id] = a.now
	}
}

// Advance moves the server clock one tick.
func (a *SimulatedAssets) Advance() {
	a.now++
}

// Loaded reports whether id finished loading. Unrequested assets are not
// loaded.
func (a *SimulatedAssets) Loaded(id AssetID) bool {
	at, ok := a.requested[id]
	return ok && a.now-at >= a.Latency
}

// PipelinesReady is always true; nothing is compiled.
func (a *SimulatedAssets) PipelinesReady() bool {
	return true
}
