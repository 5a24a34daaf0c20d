package html

// FormScript adds the _csrf field to every POST form and turns file inputs
// marked data-data-url into a base64 data URL posted in the named field.
func FormScript() string {
	return `<script>
(function () {
  function cookie(name) {
    var prefix = name + "=";
    var parts = document.cookie ? document.cookie.split(";") : [];
    for (var i = 0; i < parts.length; i++) {
      var c = parts[i].trim();
      if (c.indexOf(prefix) === 0) return decodeURIComponent(c.substring(prefix.length));
    }
    return "";
  }

  function hidden(form, name, value) {
    var input = form.querySelector("input[type='hidden'][name='" + name + "']");
    if (!input) {
      input = document.createElement("input");
      input.type = "hidden";
      input.name = name;
      form.appendChild(input);
    }
    input.value = value;
  }

  function wireCSRF() {
    var token = cookie("X-CSRF-Token");
    if (!token) return;
    document.querySelectorAll("form").forEach(function (form) {
      if ((form.getAttribute("method") || "GET").toUpperCase() !== "POST") return;
      hidden(form, "_csrf", token);
    });
  }

  function wireDataURLs() {
    document.querySelectorAll("input[type='file'][data-data-url]").forEach(function (input) {
      input.addEventListener("change", function () {
        var file = input.files && input.files[0];
        if (!file) return;
        var reader = new FileReader();
        reader.onload = function () {
          hidden(input.form, input.getAttribute("data-data-url"), reader.result);
          input.value = "";
          input.form.submit();
        };
        reader.onerror = function () {
          input.form.submit();
        };
        reader.readAsDataURL(file);
      });
    });
  }

  function init() {
    wireCSRF();
    wireDataURLs();
  }

  if (document.readyState === "loading") {
    document.addEventListener("DOMContentLoaded", init);
  } else {
    init();
  }
})();
</script>`
}
