package diagnostics

// RetrievalPanel selects a retrieval column by title. The column right after
// a molecule column holds its error.
type RetrievalPanel struct {
	Label  string
	Column string
	Color  string
}

// MoleculePanels are the retrieved column-averaged mole fractions.
var MoleculePanels = []RetrievalPanel{
	{Label: "XCO2 [ppm]", Column: "xco2_ppm", Color: "0000ff"},
	{Label: "XCH4 [ppm]", Column: "xch4_ppm", Color: "ff0000"},
	{Label: "XCO [ppb]", Column: "xco_ppb", Color: "000000"},
	{Label: "XN2O [ppb]", Column: "xn2o_ppb", Color: "008000"},
	{Label: "Xair [a.u.]", Column: "xair", Color: "808080"},
	{Label: "LSE [a.u.]", Column: "LSE", Color: "c4abfe"},
}

// DiagnosticPanels are the fit quality columns.
var DiagnosticPanels = []RetrievalPanel{
	{Label: "FVSI [%]", Column: "fvsi_%", Color: "ffa500"},
	{Label: "6220 FS [mK]", Column: "co2_6220_FS", Color: "f4a460"},
	{Label: "7885 FS [mK]", Column: "o2_7885_FS", Color: "f4a460"},
	{Label: "6220 S-G [ppm]", Column: "co2_6220_S-G", Color: "7fff00"},
	{Label: "7885 S-G [ppm]", Column: "o2_7885_S-G", Color: "7fff00"},
	{Label: "6220 VSF CO2 [a.u.]", Column: "co2_6220_VSF_co2", Color: "0000ff"},
	{Label: "7885 VSF O2 [a.u.]", Column: "o2_7885_VSF_o2", Color: "808080"},
	{Label: "5790 VSF HCl [a.u.]", Column: "hcl_5790_VSF_hcl", Color: "ff6347"},
	{Label: "flag", Column: "flag", Color: "ff6347"},
}

// TrackerPanels are the tracker log columns drawn, top to bottom.
var TrackerPanels = []PanelSpec{
	{Label: "Cam. score [pixels]", Column: 8, Color: "ff0000"},
	{Label: "4Q score [V]", Column: 7, Color: "808080"},
	{Label: "Tracker elev. [deg.]", Column: 4, Color: "0000ff"},
	{Label: "Tracker azim. [deg.]", Column: 3, Color: "008000"},
}
