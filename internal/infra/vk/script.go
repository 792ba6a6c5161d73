package vk

import "fmt"

const (
	// PageSize is the wall.get per-call item cap.
	PageSize = 100
	// PagesPerBatch is how many wall.get calls one execute script may chain.
	PagesPerBatch = 15
	// BatchCap is the number of posts one execute call can return.
	BatchCap = PageSize * PagesPerBatch
)

// BatchScript builds the VKScript run by execute. It reads pages of PageSize
// posts from offset on and stops after PagesPerBatch pages, on a short page,
// or once the last post of a page is not newer than threshold.
func BatchScript(ownerID int64, offset int, threshold int64) string {
	return fmt.Sprintf(`var offset = %[2]d;
var counter = 1;
var all_posts = [];
var posts = API.wall.get({"owner_id": %[1]d, "offset": offset, "count": %[4]d});
all_posts.push(posts.items);
offset = offset + %[4]d;
while (posts.items.length == %[4]d && posts.items[%[5]d].date > %[3]d && counter < %[6]d) {
	posts = API.wall.get({"owner_id": %[1]d, "offset": offset, "count": %[4]d});
	all_posts.push(posts.items);
	offset = offset + %[4]d;
	counter = counter + 1;
}
return all_posts;`, ownerID, offset, threshold, PageSize, PageSize-1, PagesPerBatch)
}
