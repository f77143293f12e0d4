// Package form encodes nested maps as bracketed form fields and decodes them
// back.
//
// A nested mapping at key K with inner key I becomes the field name K[I], to
// any depth, and sequences use numeric indices:
//
//	{"nest": {"key 1": "value 1"}, "ids": [1, 2]}
//	nest[key 1]=value 1, ids[0]=1, ids[1]=2
//
// Expand is the inverse used by servers that receive such fields.
package form
