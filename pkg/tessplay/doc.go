// Package tessplay provides the public API for playing vector animation
// bundles with go-tessplay. A Player loads a bundle, drives its artboards
// and state machines, and hosts them in an Ebiten window.
//
// # Basic Usage
//
//	p, err := tessplay.New("/path/to/marty.yaml", nil)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer p.Close()
//
//	if err := p.Run(ctx, render.DefaultConfig()); err != nil {
//		log.Fatal(err)
//	}
//
// # Bundle Sources
//
//   - Disk file: [New], which can also watch the file for changes
//   - Embedded FS: [NewFromFS] to load from an [io/fs.FS]
//   - Bytes: [NewFromBytes] for generated or downloaded bundles
//
// # Hot Reload
//
// With [Options].Watch set, writes to the bundle file are debounced and
// the bundle is imported again off the game loop. The next [Player.Tick]
// swaps it in. A bundle that fails to import is reported by Tick and the
// previous one keeps playing.
//
// # Observability
//
// Diagnostics go to [Options].Logger; see [NewSlogAdapter]. Counters are
// kept in [Metrics] and can be published with [Metrics.RegisterExpvar].
// [Player.Health] summarizes the bundle, watcher and recent errors.
package tessplay
