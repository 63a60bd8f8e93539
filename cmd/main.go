package main

import (
	"flag"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"mergedb/pkg/config"
	"mergedb/pkg/crdt"
	"mergedb/pkg/storage"
	"mergedb/pkg/util/logging"
)

func main() {
	configPath := flag.String("config", "cmd/config.yaml", "path to the node config file")
	flag.Parse()

	cfg, err := config.Read(*configPath)
	if err != nil {
		cfg = config.Default()
	}
	cfg.PopulateDefaults()
	if err := cfg.Validate(); err != nil {
		panic(err)
	}

	logging.InitDefault(cfg.Node.ID)
	slog.Info("node starting", "bind_address", cfg.Node.BindAddress, "port", cfg.Node.Port)

	reg := prometheus.NewRegistry()
	runDivergenceDemo(reg)
}

// runDivergenceDemo stands up two in-process replicas, lets each
// mutate independently, then merges their states into each other to
// show the join converging on the same result regardless of
// direction.
func runDivergenceDemo(reg prometheus.Registerer) {
	replicaA := storage.NewStore("replica-a", storage.NewEngine(16, "replica-a", reg))
	replicaB := storage.NewStore("replica-b", storage.NewEngine(16, "replica-b", reg))

	counterA := crdt.NewPNCounter()
	must(counterA.Increment("replica-a", 5))
	replicaA.Put("views", counterA)

	counterB := crdt.NewPNCounter()
	must(counterB.Increment("replica-b", 3))
	must(counterB.Decrement("replica-b", 1))
	replicaB.Put("views", counterB)

	exchange(replicaA, replicaB, "views")

	merged, _ := replicaA.Get("views")
	slog.Info("counter converged", "value", merged.(*crdt.PNCounter).Value())

	registerA := crdt.NewLWWRegister()
	must(registerA.Write([]byte("from A"), 1, "replica-a"))
	replicaA.Put("title", registerA)

	registerB := crdt.NewLWWRegister()
	must(registerB.Write([]byte("from B"), 2, "replica-b"))
	replicaB.Put("title", registerB)

	exchange(replicaA, replicaB, "title")

	title, _ := replicaA.Get("title")
	value, _ := title.(*crdt.LWWRegister).Read()
	slog.Info("register converged", "value", string(value))

	tagsA := crdt.NewAWSet[string]()
	clockA := crdt.NewClock("replica-a")
	tagsA.Add("urgent", clockA.Next())
	replicaA.Put("tags", tagsA)

	tagsB := crdt.NewAWSet[string]()
	clockB := crdt.NewClock("replica-b")
	tagsB.Add("urgent", clockB.Next())
	tagsB.Remove("urgent")
	tagsB.Add("reviewed", clockB.Next())
	replicaB.Put("tags", tagsB)

	exchange(replicaA, replicaB, "tags")

	tags, _ := replicaA.Get("tags")
	slog.Info("set converged", "elements", tags.(*crdt.AWSet[string]).Elements())
}

func exchange(a, b *storage.Store, key string) {
	fromA, ok := a.Get(key)
	if ok {
		encoded, err := crdt.Encode(fromA)
		must(err)
		must(b.Merge(key, encoded))
	}

	fromB, ok := b.Get(key)
	if ok {
		encoded, err := crdt.Encode(fromB)
		must(err)
		must(a.Merge(key, encoded))
	}
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}
