// Command fireviz serves interactive heatmaps of a fire model so the
// ignition raster and its derived layers can be inspected in a browser.
package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/banshee-data/firewatch/internal/firedata"
	"github.com/banshee-data/firewatch/internal/monitoring"
	"github.com/banshee-data/firewatch/internal/planviz"
	"github.com/banshee-data/firewatch/internal/raster"
	"github.com/banshee-data/firewatch/internal/version"
)

var (
	ignitionsPath = flag.String("ignitions", "", "Path to the ignition raster JSON file (required)")
	listen        = flag.String("listen", ":8080", "Listen address")
	showVersion   = flag.Bool("version", false, "Print version and exit")
)

func main() {
	flag.Parse()
	if *showVersion {
		fmt.Println(version.String())
		return
	}
	if *ignitionsPath == "" {
		flag.Usage()
		os.Exit(2)
	}

	ignitions, err := raster.LoadJSON(*ignitionsPath)
	if err != nil {
		log.Fatalf("failed to load ignitions: %v", err)
	}
	fire := firedata.New(ignitions)

	mux := http.NewServeMux()
	mux.HandleFunc("/ignitions", planviz.HeatmapHandler(fire.Ignitions, "Ignition times"))
	mux.HandleFunc("/traversal", planviz.HeatmapHandler(fire.TraversalEnd, "Traversal end times"))
	mux.HandleFunc("/directions", planviz.HeatmapHandler(fire.PropagationDirections, "Propagation directions"))
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, `<html><body>
<h1>firewatch fire model</h1>
<ul>
<li><a href="/ignitions">Ignition times</a></li>
<li><a href="/traversal">Traversal end times</a></li>
<li><a href="/directions">Propagation directions</a></li>
</ul>
</body></html>`)
	})

	monitoring.Logf("fireviz: serving fire model on %s", *listen)
	log.Fatal(http.ListenAndServe(*listen, mux))
}
