package universe

import (
	"sort"
	"sync"
)

/*
	Tick strategies
	all of them produce the same generation, they differ in how the snapshot is made and who computes it
	snapshot - copies cells to scratch and computes every cell (Tick)
	swap     - swaps cells and scratch instead of copying, every cell of the new buffer is then rewritten
	parallel - snapshot, then the rows are split into bands each of which is computed by individual goroutine
*/

const (
	DefWorkers        = 10 //default workers
	DefMinRowsPerBand = 3  //minimum rows for one worker
)

//Engine advances the universe by one generation
type Engine func(u *Universe)

var Engines = map[string]Engine{
	"snapshot": (*Universe).Tick,
	"swap":     (*Universe).TickSwap,
	"parallel": func(u *Universe) {
		u.TickParallel(DefWorkers)
	},
}

//EngineNames returns the sorted names of Engines
func EngineNames() (names []string) {
	names = make([]string, 0, len(Engines))
	for k := range Engines {
		names = append(names, k)
	}
	sort.Strings(names)
	return
}

//TickSwap advances by one generation swapping the buffers instead of copying
//the Cells slice obtained before the call is no longer the current generation after it
func (u *Universe) TickSwap() {
	u.cells, u.scratch = u.scratch, u.cells
	u.nextGeneration(0, u.height, u.cells)
	u.ticked = true
}

//band describes the rows computed by one worker
type band struct {
	from uint32
	to   uint32
	buff BitBuffer
}

//bands splits the field into at most workers row ranges of DefMinRowsPerBand rows or more
func (u *Universe) bands(workers int) []band {
	if workers < 1 {
		workers = 1
	}
	rowsPerBand := int(u.height) / workers
	if rowsPerBand < DefMinRowsPerBand {
		rowsPerBand = DefMinRowsPerBand
	} else if rowsPerBand*workers < int(u.height) {
		rowsPerBand++
	}
	bands := make([]band, 0, workers)
	for from := 0; from < int(u.height); from += rowsPerBand {
		to := from + rowsPerBand
		if to > int(u.height) {
			to = int(u.height)
		}
		bands = append(bands, band{
			from: uint32(from),
			to:   uint32(to),
			buff: NewBitBuffer((to - from) * int(u.width)),
		})
	}
	return bands
}

//TickParallel advances by one generation computing row bands concurrently
//each worker writes to its own buffer, the bands are copied to cells after all workers are done
//so no two goroutines ever write the same byte
func (u *Universe) TickParallel(workers int) {
	copy(u.scratch, u.cells)
	bands := u.bands(workers)
	var waitGroup sync.WaitGroup
	for i := range bands {
		b := &bands[i]
		waitGroup.Add(1)
		go func() {
			defer waitGroup.Done()
			u.nextGeneration(b.from, b.to, b.buff)
		}()
	}
	waitGroup.Wait()
	for _, b := range bands {
		u.writeBand(b)
	}
	u.ticked = true
}

//writeBand copies the band buffer to cells
func (u *Universe) writeBand(b band) {
	base := u.index(b.from, 0)
	n := int(b.to-b.from) * int(u.width)
	for i := 0; i < n; i++ {
		u.cells.Set(base+i, b.buff.Get(i))
	}
}
