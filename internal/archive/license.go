package archive

import (
	"strings"
)

// licenseURLs maps common license names to their canonical URLs for the
// licenseurl metadata field. Lookup is best-effort; unknown names simply
// omit the field.
var licenseURLs = map[string]string{
	"mit":                                    "https://opensource.org/licenses/MIT",
	"mit license":                            "https://opensource.org/licenses/MIT",
	"apache-2.0":                             "https://www.apache.org/licenses/LICENSE-2.0",
	"apache license 2.0":                     "https://www.apache.org/licenses/LICENSE-2.0",
	"gpl-2.0":                                "https://www.gnu.org/licenses/old-licenses/gpl-2.0.html",
	"gnu general public license v2.0":        "https://www.gnu.org/licenses/old-licenses/gpl-2.0.html",
	"gpl-3.0":                                "https://www.gnu.org/licenses/gpl-3.0.html",
	"gnu general public license v3.0":        "https://www.gnu.org/licenses/gpl-3.0.html",
	"lgpl-3.0":                               "https://www.gnu.org/licenses/lgpl-3.0.html",
	"agpl-3.0":                               "https://www.gnu.org/licenses/agpl-3.0.html",
	"gnu affero general public license v3.0": "https://www.gnu.org/licenses/agpl-3.0.html",
	"bsd-2-clause":                           "https://opensource.org/licenses/BSD-2-Clause",
	"bsd 2-clause \"simplified\" license":    "https://opensource.org/licenses/BSD-2-Clause",
	"bsd-3-clause":                           "https://opensource.org/licenses/BSD-3-Clause",
	"bsd 3-clause \"new\" or \"revised\" license": "https://opensource.org/licenses/BSD-3-Clause",
	"mpl-2.0":                              "https://www.mozilla.org/en-US/MPL/2.0/",
	"mozilla public license 2.0":           "https://www.mozilla.org/en-US/MPL/2.0/",
	"isc":                                  "https://opensource.org/licenses/ISC",
	"isc license":                          "https://opensource.org/licenses/ISC",
	"unlicense":                            "https://unlicense.org/",
	"the unlicense":                        "https://unlicense.org/",
	"cc0-1.0":                              "https://creativecommons.org/publicdomain/zero/1.0/",
	"creative commons zero v1.0 universal": "https://creativecommons.org/publicdomain/zero/1.0/",
	"epl-2.0":                              "https://www.eclipse.org/legal/epl-2.0/",
	"eclipse public license 2.0":           "https://www.eclipse.org/legal/epl-2.0/",
}

// LicenseURL resolves a license name to its canonical URL, or "" when the
// name is unknown.
func LicenseURL(name string) string {
	return licenseURLs[strings.ToLower(strings.TrimSpace(name))]
}
