package geomap

import "html/template"

var pageTmpl = template.Must(template.New("map").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<link rel="stylesheet" href="https://unpkg.com/leaflet@1.9.4/dist/leaflet.css">
<script src="https://unpkg.com/leaflet@1.9.4/dist/leaflet.js"></script>
<style>html, body, #map { height: 100%; margin: 0; }</style>
</head>
<body>
<div id="map"></div>
<script>
var points = {{.Points}};
var clusters = {{.Clusters}};
var map = L.map("map").setView([{{.CenterLat}}, {{.CenterLon}}], {{.Zoom}});
L.tileLayer("https://{s}.tile.openstreetmap.org/{z}/{x}/{y}.png", {
  maxZoom: 19,
  attribution: "&copy; OpenStreetMap contributors"
}).addTo(map);

function popupFor(feature) {
  var box = document.createElement("div");
  (feature.properties.popup || []).forEach(function (kv) {
    var line = document.createElement("div");
    var label = document.createElement("b");
    label.textContent = kv[0] + ": ";
    line.appendChild(label);
    line.appendChild(document.createTextNode(kv[1]));
    box.appendChild(line);
  });
  return box;
}

var pointLayer = L.geoJSON(points, {
  pointToLayer: function (f, latlng) {
    return L.circleMarker(latlng, {radius: 4, color: "blue", fill: true, fillOpacity: 0.7});
  },
  onEachFeature: function (f, layer) {
    if ((f.properties.popup || []).length) { layer.bindPopup(popupFor(f), {maxWidth: 300}); }
  }
});
var clusterLayer = L.geoJSON(clusters, {
  pointToLayer: function (f, latlng) {
    var n = f.properties.count;
    return L.circleMarker(latlng, {radius: 6 + Math.min(24, Math.sqrt(n) * 2), color: "darkgreen", fillOpacity: 0.5})
      .bindTooltip(String(n), {permanent: true, direction: "center"});
  }
});
pointLayer.addTo(map);
L.control.layers(null, {"Restaurants": pointLayer, "Clusters": clusterLayer}).addTo(map);
map.fitBounds({{.Bounds}}, {maxZoom: {{.Zoom}}});
</script>
</body>
</html>
`))
