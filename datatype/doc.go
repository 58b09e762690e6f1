/*
Package datatype maps type descriptors stored in scenario file headers to the
codecs able to encode and decode values of that type.

Value types are made available by registering them, usually from the init()
of a datatype package linked into the executable:

	import (
		// Declare the value types this executable will support
		_ "github.com/janelia-flyem/graft/datatype/writable"
		_ "randomsite.org/datatypes/myfoo"
	)

Each registered type carries capability bounds.  A type registered through
RegisterKey is comparable and may be used for vertex ids; RegisterValue types
may hold vertex values, edge values and messages; RegisterComputation only
names a computation class.  Resolve refuses a type whose bounds do not cover
the field it is requested for.
*/
package datatype
