package pipeline

import (
	"strings"

	"lotsheet/internal/util"
)

// storageLabelNoise is the template's own "LOT: STORAGE" label bleeding
// through the scan; it is not part of any item description.
const storageLabelNoise = "LOT: STORAGE"

// CleanDescription removes known scan artifacts from a raw item
// description. Order matters: the noise label goes first, then the
// misread substitutions ("lJ" is a mangled U; any remaining lowercase l
// is a mangled I in the manifest font, replaced globally even inside
// words), then whitespace collapse and edge trimming.
func CleanDescription(desc string) string {
	desc = strings.ReplaceAll(desc, storageLabelNoise, "")
	desc = strings.ReplaceAll(desc, "lJ", "U")
	desc = strings.ReplaceAll(desc, "l", "I")
	desc = util.CollapseSpaceRuns(desc)
	return strings.Trim(desc, " :")
}

// isLotTypeLine is the inclusion heuristic: a genuine lot entry mentions
// both LOT and TYPE somewhere in the raw description. It trades recall
// for precision; lines failing it are dropped without diagnostics.
func isLotTypeLine(desc string) bool {
	upper := strings.ToUpper(desc)
	return strings.Contains(upper, "LOT") && strings.Contains(upper, "TYPE")
}
