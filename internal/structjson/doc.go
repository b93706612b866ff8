// Package structjson converts between structure.Structure and the
// dictionary form pymatgen writes with Structure.as_dict():
//
//	{
//	  "lattice": {"matrix": [[a1,a2,a3],[b1,b2,b3],[c1,c2,c3]], "pbc": [true,true,true]},
//	  "sites": [
//	    {"species": [{"element": "Na", "occu": 1, "oxidation_state": 1}],
//	     "abc": [0, 0, 0], "xyz": [0, 0, 0], "label": "Na"}
//	  ]
//	}
//
// A site position is read from "abc" when present and from Cartesian "xyz"
// otherwise. Unknown keys ("@module", "properties", "charge", ...) are
// ignored. The decoded structure is validated, so disordered sites are
// rejected with structure.ErrUnsupportedDisorder.
package structjson
