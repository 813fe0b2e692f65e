package templates

// ImageZoomScript opens a clicked post image in a full-screen overlay.
// Clicking the overlay or pressing Escape closes it.
const ImageZoomScript = `<script>
document.addEventListener("DOMContentLoaded", function () {
  var overlay = null;

  function close() {
    if (overlay) {
      overlay.remove();
      overlay = null;
    }
  }

  document.querySelectorAll(".post-content img").forEach(function (img) {
    img.style.cursor = "zoom-in";
    img.addEventListener("click", function () {
      close();
      overlay = document.createElement("div");
      overlay.className = "image-overlay";
      var zoomed = document.createElement("img");
      zoomed.src = img.src;
      zoomed.alt = img.alt;
      overlay.appendChild(zoomed);
      overlay.addEventListener("click", close);
      document.body.appendChild(overlay);
    });
  });

  document.addEventListener("keydown", function (e) {
    if (e.key === "Escape") {
      close();
    }
  });
});
</script>
`

// ExtraJS returns the script injected into post pages.
func ExtraJS(imageZoom bool) string {
	if imageZoom {
		return ImageZoomScript
	}
	return ""
}
