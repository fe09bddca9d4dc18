// Package ikcio writes clustering results as CSV or TSV. No library in the
// retrieved corpus covers CSV writing, so this uses the standard library's
// encoding/csv directly for CSV (see DESIGN.md); TSV lines are written with
// fmt.Fprintf.
package ikcio

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/gilchrisn/ikc-clustering/pkg/ikc"
)

// WriteCSV writes one line per (node, cluster) membership:
// node_id,cluster_id,k_value,modularity. Cluster ids are 1-based, assigned
// in emission order.
func WriteCSV(w io.Writer, clusters []ikc.Cluster) error {
	cw := csv.NewWriter(w)
	for idx, cluster := range clusters {
		clusterID := idx + 1
		for _, node := range cluster.Nodes {
			record := []string{
				strconv.FormatUint(node, 10),
				strconv.Itoa(clusterID),
				strconv.FormatUint(uint64(cluster.KValue), 10),
				strconv.FormatFloat(cluster.Modularity, 'g', -1, 64),
			}
			if err := cw.Write(record); err != nil {
				return fmt.Errorf("ikcio: writing csv record: %w", err)
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteTSV writes one line per (node, cluster) membership: node_id\tcluster_id.
func WriteTSV(w io.Writer, clusters []ikc.Cluster) error {
	for idx, cluster := range clusters {
		clusterID := idx + 1
		for _, node := range cluster.Nodes {
			if _, err := fmt.Fprintf(w, "%d\t%d\n", node, clusterID); err != nil {
				return fmt.Errorf("ikcio: writing tsv record: %w", err)
			}
		}
	}
	return nil
}
