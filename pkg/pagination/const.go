package pagination

import "math"

// PageDefaultSize is the default page size if not specified
const PageDefaultSize = 100

// PageMaxSize is the maximum allowed page size
const PageMaxSize = 1_000

// PageMax bounds Page so that (Page-1)*Size fits in an int32 for every allowed size.
const PageMax = math.MaxInt32 / PageMaxSize
